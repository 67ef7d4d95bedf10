package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/phoenix-retimer/phoenix/device"
	"github.com/phoenix-retimer/phoenix/discovery"
	"github.com/phoenix-retimer/phoenix/phoenixlog"
	"github.com/phoenix-retimer/phoenix/regmap"
	"github.com/phoenix-retimer/phoenix/registry"
	"github.com/phoenix-retimer/phoenix/transport"
	"github.com/phoenix-retimer/phoenix/transport/serialport"
)

var (
	transportKind = flag.String("transport", "i2c", `transport variant: "i2c" or "uart"`)
	devicePath    = flag.String("device", "/dev/i2c-1", "adapter device node (i2c) or serial port (uart)")
	address       = flag.Uint("address", 0x50, "7-bit slave address (the SLAVE byte of each frame for uart)")
	scanStart     = flag.Uint("scan-start", 0x50, "first address probed by the scan command")
	scanEnd       = flag.Uint("scan-end", 0x57, "last address probed by the scan command")
	verbose       = flag.Bool("verbose", false, "enable debug-level logging")
)

func main() {
	flag.Parse()
	if *verbose {
		phoenixlog.Default.Min = phoenixlog.LevelDebug
	}

	fmt.Println("phoenix-probe - Phoenix retimer host control plane")
	fmt.Println("====================================================")
	fmt.Println()

	t, err := openTransport()
	if err != nil {
		phoenixlog.Error("failed to build transport: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	phoenixlog.Debug("opening %s transport at %s", *transportKind, *devicePath)
	defer t.Close()

	reg := registry.New()

	fmt.Printf("Connecting to retimer at address 0x%02X via %s...\n", *address, *transportKind)
	handle, err := reg.Connect(ctx, t, uint8(*address))
	if err != nil {
		phoenixlog.Error("failed to connect: %v", err)
		os.Exit(1)
	}
	defer reg.Disconnect(handle)

	dev, err := reg.Get(handle)
	if err != nil {
		phoenixlog.Error("%v", err)
		os.Exit(1)
	}

	fmt.Println("Connected successfully!")
	printIdentity(dev.Identity())

	fmt.Println("\nEnter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "identity":
			printIdentity(dev.Identity())

		case "status":
			if err := printStatus(ctx, dev); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "diagnose":
			if err := printDiagnosis(ctx, dev); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "scan":
			if err := runScan(ctx, t); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "reset":
			if len(parts) < 2 {
				fmt.Println("usage: reset <hard|soft|mac|perst|global>")
				continue
			}
			if err := runReset(ctx, dev, parts[1]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func openTransport() (transport.Transport, error) {
	switch *transportKind {
	case "i2c":
		return transport.Factory.Create("i2c", transport.I2CFactoryConfig{
			DevicePath: *devicePath,
			Config:     transport.DefaultI2CConfig(0, uint8(*address)),
		})
	case "uart":
		port, err := serialport.Open(serialport.DefaultConfig(*devicePath))
		if err != nil {
			return nil, err
		}
		return transport.Factory.Create("uart", transport.UARTFactoryConfig{
			Port:   port,
			Config: transport.DefaultUARTConfig(*devicePath),
		})
	default:
		return nil, fmt.Errorf("unknown transport %q (available: %v)", *transportKind, transport.Factory.Available())
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  help               - Show this help message")
	fmt.Println("  identity           - Print cached device identity")
	fmt.Println("  status             - Read and print live device status")
	fmt.Println("  diagnose           - Print a consistent status+configuration snapshot")
	fmt.Println("  scan               - Probe the scan-start..scan-end address range")
	fmt.Println("  reset <hard|soft|mac|perst|global> - Issue a device reset and wait for it to complete")
	fmt.Println("  quit/exit/q        - Exit the program")
	fmt.Println()
}

func printIdentity(id device.Identity) {
	fmt.Printf("  Vendor 0x%04X  Device 0x%02X  Rev 0x%02X  FW %d.%d  Handle 0x%08X  Addr 0x%02X\n",
		id.VendorID, id.DeviceID, id.RevisionID, id.FirmwareMajor, id.FirmwareMinor, id.ProductHandle, id.DeviceAddress)
}

func printStatus(ctx context.Context, dev *device.Device) error {
	status, err := dev.GetStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("  Temperature: %d C\n", status.TemperatureC)
	fmt.Printf("  Healthy:     %t\n", status.IsHealthy)
	fmt.Printf("  Interrupts:  global=%t eq_phase=%t phy_phase=%t internal=%t\n",
		status.InterruptStatus.Global, status.InterruptStatus.EQPhaseErr,
		status.InterruptStatus.PHYPhaseErr, status.InterruptStatus.InternalErr)
	fmt.Printf("  PPA: %s up=%t speed=%v width=%d\n",
		status.PPAStatus.CurrentLtssmState, status.PPAStatus.IsLinkUp,
		status.PPAStatus.CurrentLinkSpeed, status.PPAStatus.CurrentLinkWidth)
	fmt.Printf("  PPB: %s up=%t speed=%v width=%d\n",
		status.PPBStatus.CurrentLtssmState, status.PPBStatus.IsLinkUp,
		status.PPBStatus.CurrentLinkSpeed, status.PPBStatus.CurrentLinkWidth)
	return nil
}

func printDiagnosis(ctx context.Context, dev *device.Device) error {
	summary, err := dev.Diagnose(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("  Healthy:       %t\n", summary.Status.IsHealthy)
	fmt.Printf("  Bifurcation:   %v\n", summary.Configuration.BifurcationMode)
	fmt.Printf("  Max data rate: %v\n", summary.Configuration.MaxDataRate)
	fmt.Printf("  PRBS state:    %s\n", summary.PRBSState)
	return nil
}

func runScan(ctx context.Context, t transport.Transport) error {
	addrs := make([]uint8, 0, *scanEnd-*scanStart+1)
	for a := *scanStart; a <= *scanEnd; a++ {
		addrs = append(addrs, uint8(a))
	}
	found, err := discovery.Discover(ctx, t, addrs)
	if err != nil {
		return err
	}
	fmt.Printf("  Found %d device(s):\n", len(found))
	for _, id := range found {
		fmt.Print("  ")
		printIdentity(id)
	}
	return nil
}

func runReset(ctx context.Context, dev *device.Device, kindStr string) error {
	kind, err := parseResetType(kindStr)
	if err != nil {
		return err
	}
	fmt.Printf("Issuing %s reset...\n", kindStr)
	if err := dev.Reset(ctx, kind); err != nil {
		return err
	}
	fmt.Println("Reset completed.")
	return nil
}

func parseResetType(s string) (regmap.ResetType, error) {
	switch strings.ToLower(s) {
	case "hard":
		return regmap.ResetHard, nil
	case "soft":
		return regmap.ResetSoft, nil
	case "mac":
		return regmap.ResetMAC, nil
	case "perst":
		return regmap.ResetPERST, nil
	case "global":
		return regmap.ResetGlobalSWRST, nil
	default:
		return 0, fmt.Errorf("unknown reset type %q (want hard, soft, mac, perst, or global)", s)
	}
}

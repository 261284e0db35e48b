package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coredump/tinyrv-sim/internal/config"
	"github.com/coredump/tinyrv-sim/internal/simulator"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "Path to the configuration file")
	workloadPath := flag.String("workload", "", "Path to a workload file, overriding the config's workloadPath")
	verbose := flag.Bool("v", false, "Enable verbose output")
	numCycles := flag.Int64("cycles", 1000, "Number of cycles to simulate")
	ooo := flag.Bool("ooo", true, "Use the out-of-order scoreboard pipeline instead of in-order")
	gshareEnabled := flag.Bool("gshare", false, "Enable the GShare branch predictor")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	if *verbose {
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	if *numCycles <= 0 {
		logger.Fatalf("Invalid cycle count: %d", *numCycles)
	}

	logger.Println("Single-Hart RISC-V Microarchitectural Simulator")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if *workloadPath != "" {
		cfg.WorkloadPath = *workloadPath
	}
	cfg.OOOEnabled = *ooo
	cfg.GshareEnabled = *gshareEnabled

	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("	Pipeline: %s\n", pipelineName(cfg.OOOEnabled))
	fmt.Printf("	Branch Predictor: %s\n", predictorName(cfg.GshareEnabled))
	fmt.Printf("	Registers: %d\n", cfg.NumRegs)
	fmt.Printf("	Reservation Stations: %d\n", cfg.NumRSs)
	fmt.Printf("	ROB Size: %d\n", cfg.RobSize)
	fmt.Printf("	FU Latencies: ALU=%d LSU=%d CSR=%d\n", cfg.AluLatency, cfg.LsuLatency, cfg.CsrLatency)
	fmt.Printf("	RAM Size: %d bytes\n", cfg.RamSize)
	fmt.Printf("	Workload: %s\n", cfg.WorkloadPath)

	sim, err := simulator.New(cfg, os.Stdout)
	if err != nil {
		logger.Fatalf("Failed to initialize simulator: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		defer close(done)

		logger.Printf("Starting simulation for %d cycles...", *numCycles)

		if err := sim.Run(*numCycles); err != nil {
			logger.Fatalf("Simulation failed: %v", err)
		}

		stats := sim.GetStatistics()
		fmt.Println("\nSimulation Statistics:")
		fmt.Printf("	Total Cycles: %d\n", stats.TotalCycles)
		fmt.Printf("	Instructions Retired: %d\n", stats.Instrs)
		fmt.Printf("	IPC: %.2f\n", stats.IPC)
		if stats.ExitedCleanly {
			fmt.Printf("	Exit Code: %d\n", stats.ExitCode)
		} else {
			fmt.Println("	Exit Code: program did not exit within the cycle budget")
		}
	}()

	select {
	case <-sigChan:
		logger.Println("Received termination signal. Shutting down...")
		sim.Shutdown()
		<-done
		logger.Println("Simulation terminated successfully")
	case <-done:
	}
}

func pipelineName(ooo bool) string {
	if ooo {
		return "out-of-order (scoreboard)"
	}
	return "in-order"
}

func predictorName(enabled bool) string {
	if enabled {
		return "gshare"
	}
	return "static not-taken"
}

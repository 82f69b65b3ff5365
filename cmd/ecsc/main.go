// Command ecsc is the compiler CLI: it compiles a
// system's convert-function source against a `.sim.yaml` SimulationDef,
// prints a one-line summary of each resulting Graph, and can optionally
// push the simulation to a
// running engine. Subcommand dispatch uses a plain
// os.Args style — no flag package, no cobra.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/bentobox-sdk/ecsgraph/pkg/ecsconfig"
	"github.com/bentobox-sdk/ecsgraph/pkg/engineclient"
	"github.com/bentobox-sdk/ecsgraph/pkg/simulation"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "apply":
		err = runApply(os.Args[2:])
	case "step":
		err = runStep(os.Args[2:])
	case "version":
		err = runVersion(os.Args[2:])
	case "help", "-help", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, colorError(err.Error()))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  ecsc compile <sim.yaml>             compile every system and print a summary")
	fmt.Fprintln(os.Stderr, "  ecsc apply <sim.yaml> <engine addr> compile and apply the simulation to a running engine")
	fmt.Fprintln(os.Stderr, "  ecsc step <name> <engine addr>      step a simulation already applied to an engine")
	fmt.Fprintln(os.Stderr, "  ecsc version <engine addr>          print the connected engine's version")
}

func colorError(msg string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return msg
	}
	return "\x1b[31m" + msg + "\x1b[0m"
}

func runCompile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("compile requires a sim.yaml path")
	}
	def, err := ecsconfig.Load(args[0])
	if err != nil {
		return err
	}
	for _, sys := range def.Systems {
		fmt.Printf("%s: %s\n", sys.Name, simulation.Describe(sys.Graph))
	}
	return nil
}

func runApply(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("apply requires a sim.yaml path and an engine address")
	}
	def, err := ecsconfig.Load(args[0])
	if err != nil {
		return err
	}

	engine, err := engineclient.Dial(args[1])
	if err != nil {
		return err
	}
	defer engine.Close()

	sim, err := simulation.New(def, engine)
	if err != nil {
		return err
	}

	if err := sim.Start(context.Background()); err != nil {
		return err
	}

	fmt.Printf("applied simulation %q (session %s)\n", def.Name, sim.SessionID)
	return nil
}

func runStep(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("step requires a simulation name and an engine address")
	}
	engine, err := engineclient.Dial(args[1])
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.StepSimulation(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("stepped simulation %q\n", args[0])
	return nil
}

func runVersion(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("version requires an engine address")
	}
	engine, err := engineclient.Dial(args[0])
	if err != nil {
		return err
	}
	defer engine.Close()

	v, err := engine.GetVersion(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

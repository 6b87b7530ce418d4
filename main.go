package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tagvm/vm"
)

// main.go is the CLI surface over the vm package. It has no text-assembly
// front end -- spec.md marks a surface-language parser out of scope -- so
// every program it can run, step, or dump is one of the builtin demos in
// demos.go, built directly with the builder surface. This mirrors
// oisee-z80-optimizer's cobra root-command-plus-subcommands layout.

func demoNames() []string {
	names := make([]string, 0, len(demoBuilders))
	for name := range demoBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustBuildDemo(name string) (*vm.VM, error) {
	build, ok := demoBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (available: %v)", name, demoNames())
	}
	return build(), nil
}

func newRootCmd() *cobra.Command {
	var strict bool
	var verbose bool

	root := &cobra.Command{
		Use:   "tagvm",
		Short: "A tagged-value stack VM",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				vm.SetLogLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level kernel diagnostics")

	runCmd := &cobra.Command{
		Use:   "run <demo>",
		Short: "Run a builtin demo program to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mustBuildDemo(args[0])
			if err != nil {
				return err
			}
			m.SetStrict(strict)
			if err := m.Run(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), m.DumpStack())
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), m.DumpStack())
			return nil
		},
	}
	runCmd.Flags().BoolVar(&strict, "strict", false, "halt on UnknownOpcode/DivisionByZero instead of continuing advisory")

	stepCmd := &cobra.Command{
		Use:   "step <demo>",
		Short: "Single-step a builtin demo program, printing state after each instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mustBuildDemo(args[0])
			if err != nil {
				return err
			}
			for {
				err := m.Step()
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), err)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), m.DumpProgram())
				fmt.Fprint(cmd.OutOrStdout(), m.DumpStack())
			}
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <demo>",
		Short: "Build a demo program and dump its initial program/stack state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mustBuildDemo(args[0])
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprint(cmd.OutOrStdout(), m.Sdump())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), m.DumpProgram())
			fmt.Fprint(cmd.OutOrStdout(), m.DumpStack())
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available demo programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range demoNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	root.AddCommand(runCmd, stepCmd, dumpCmd, listCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexshd/circuitcheck"
	"github.com/alexshd/circuitcheck/store"
)

var (
	candidatePath string
	systemPath    string
	saveReport    bool

	wiresCmd = &cobra.Command{
		Use:   "wires",
		Short: "Print the conductor table",
		Args:  cobra.NoArgs,
		RunE:  runWires,
	}
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Run the constraint checks for a candidate circuit",
		Long: `Grafts the candidate into the installation (stored circuits plus any
--system file), prints its constraint checks as JSON and exits 1 when any
check is critical.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Generate a full integration report for a candidate circuit",
		Args:  cobra.NoArgs,
		RunE:  runReport,
	}
	headroomCmd = &cobra.Command{
		Use:   "headroom [circuit-id]",
		Short: "Show how much more load an installed circuit can take",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadroom,
	}

	circuitsCmd = &cobra.Command{
		Use:   "circuits",
		Short: "Manage the circuits of the installation in the store",
	}
	circuitsAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add or replace a circuit",
		Args:  cobra.NoArgs,
		RunE:  runCircuitsAdd,
	}
	circuitsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored circuits",
		Args:  cobra.NoArgs,
		RunE:  runCircuitsList,
	}
	circuitsRemoveCmd = &cobra.Command{
		Use:   "remove [circuit-id]",
		Short: "Remove a stored circuit",
		Args:  cobra.ExactArgs(1),
		RunE:  runCircuitsRemove,
	}
)

func init() {
	for _, c := range []*cobra.Command{validateCmd, reportCmd, circuitsAddCmd} {
		c.Flags().StringVarP(&candidatePath, "file", "f", "", "circuit YAML or JSON file")
		c.MarkFlagRequired("file")
	}
	for _, c := range []*cobra.Command{validateCmd, reportCmd, headroomCmd} {
		c.Flags().StringVar(&systemPath, "system", "", "YAML file listing existing circuits")
	}
	reportCmd.Flags().BoolVar(&saveReport, "save", false, "persist the report in the store")

	circuitsCmd.AddCommand(circuitsAddCmd, circuitsListCmd, circuitsRemoveCmd)
}

func runWires(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %9s %10s %10s %5s %5s %5s\n", "Size", "Dia mils", "Area cmil", "Ω/kft", "60°C", "75°C", "90°C")
	for _, size := range circuitcheck.WireSizes() {
		w, err := circuitcheck.LookupWire(size)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-5s %9.1f %10.0f %10.4f %5.0f %5.0f %5.0f\n",
			w.Size, w.DiameterMils, w.AreaCMil, w.ResistancePerKFt, w.Ampacity60C, w.Ampacity75C, w.Ampacity90C)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	candidate, err := circuitcheck.LoadCircuit(candidatePath)
	if err != nil {
		return err
	}
	v, st, err := buildValidator(cmd.Context())
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	checks, err := v.Validate(candidate)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), checks); err != nil {
		return err
	}
	if circuitcheck.OverallStatusOf(checks) == circuitcheck.StatusFail {
		return errFailed
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	candidate, err := circuitcheck.LoadCircuit(candidatePath)
	if err != nil {
		return err
	}
	if saveReport && dbPath == "" {
		return fmt.Errorf("--save needs --db")
	}
	v, st, err := buildValidator(cmd.Context())
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	report, err := v.GenerateReport(candidate)
	if err != nil {
		return err
	}
	if saveReport {
		if err := st.PutReport(cmd.Context(), report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		logger.Info("report saved", "circuit_id", report.CircuitID, "report_id", report.ID)
	}
	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.OverallStatus == circuitcheck.StatusFail {
		return errFailed
	}
	return nil
}

func runHeadroom(cmd *cobra.Command, args []string) error {
	v, st, err := buildValidator(cmd.Context())
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	h, err := v.Headroom(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, row := range []struct {
		name string
		amps float64
	}{
		{circuitcheck.LimitThermal, h.ThermalAmps},
		{circuitcheck.LimitVoltageDrop, h.VoltageAmps},
		{circuitcheck.LimitParentLoading, h.ParentAmps},
	} {
		mark := ""
		if row.name == h.LimitingCheck {
			mark = "  ← limiting"
		}
		fmt.Fprintf(out, "%-15s %10.2f A%s\n", row.name, row.amps, mark)
	}
	return nil
}

func runCircuitsAdd(cmd *cobra.Command, args []string) error {
	c, err := circuitcheck.LoadCircuit(candidatePath)
	if err != nil {
		return err
	}
	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.PutCircuit(cmd.Context(), c); err != nil {
		return err
	}
	logger.Info("circuit stored", "circuit_id", c.ID, "parent_id", c.ParentID)
	return nil
}

func runCircuitsList(cmd *cobra.Command, args []string) error {
	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	circuits, err := st.ListCircuits(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, c := range circuits {
		design := circuitcheck.Aggregate(c.Loads, true).DesignCurrent
		fmt.Fprintf(out, "%-20s %-9s %-5s %6.1f ft  %6.2f A  parent=%s\n",
			c.ID, c.Type, c.WireAWG, c.LengthFt, design, c.ParentID)
	}
	return nil
}

func runCircuitsRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteCircuit(cmd.Context(), args[0]); err != nil {
		return err
	}
	logger.Info("circuit removed", "circuit_id", args[0])
	return nil
}

// buildValidator seeds a validator with the stored circuits followed by the
// --system file; a circuit in the file overrides a stored one with the same
// ID. The returned store is nil when --db is not set.
func buildValidator(ctx context.Context) (*circuitcheck.Validator, *store.Store, error) {
	v, err := circuitcheck.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore(false)
	if err != nil {
		return nil, nil, err
	}
	if st != nil {
		stored, err := st.ListCircuits(ctx)
		if err == nil {
			err = v.AddCircuits(stored)
		}
		if err != nil {
			st.Close()
			return nil, nil, err
		}
	}

	if systemPath != "" {
		circuits, err := circuitcheck.LoadSystem(systemPath)
		if err == nil {
			err = v.AddCircuits(circuits)
		}
		if err != nil {
			if st != nil {
				st.Close()
			}
			return nil, nil, err
		}
	}

	logger.Debug("installation loaded", "circuits", v.Len())
	return v, st, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Store and query extracted yield tables",
	Long: `Load extracted yield tables into the local catalog, one batch per target
material, and look up the measured yields of a nucleus.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		applyLogging()
		return ensureCatalog(cmd.Context())
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <target> <table>",
	Short: "Import an extracted table measured on a target material",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogImport,
}

var catalogImportDirCmd = &cobra.Command{
	Use:   "import-dir <dir>",
	Short: "Import every <target>.tsv table in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImportDir,
}

var catalogImportsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List imported tables",
	Args:  cobra.NoArgs,
	RunE:  runCatalogImports,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <import-id>",
	Short: "Remove an imported table",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemove,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <z> <n>",
	Short: "Show every yield measured for a nucleus",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogShow,
}

var catalogSummaryCmd = &cobra.Command{
	Use:   "summary <z> <n> [ion-source]",
	Short: "Show average and maximum yield for a nucleus",
	Long: `Show the number of measurements, the average and the maximum yield for a
nucleus. The optional ion source restricts the aggregate to one of:
"Re surface", "Ta surface", TRILIS, IG-LIS, FEBIAD.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCatalogSummary,
}

var catalogMatrixCmd = &cobra.Command{
	Use:   "matrix [ion-source]",
	Short: "Show the mean or maximum yield of every nucleus",
	Long: `Aggregate every stored nucleus into one row of N, Z and its mean yield,
or its maximum yield with --max. The optional ion source restricts the
aggregate to one of: "Re surface", "Ta surface", TRILIS, IG-LIS, FEBIAD.

Output is a tab-separated table when not writing to a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogMatrix,
}

// Flags for the catalog commands.
var (
	skipInvalid bool
	matrixMax   bool
)

func init() {
	catalogImportCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip rows that cannot be parsed")
	catalogMatrixCmd.Flags().BoolVar(&matrixMax, "max", false, "Show the maximum yield instead of the mean")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogImportDirCmd)
	catalogCmd.AddCommand(catalogImportsCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogSummaryCmd)
	catalogCmd.AddCommand(catalogMatrixCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	target, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	imp, err := catalogService.Import(cmd.Context(), f, driving.ImportOptions{
		Target:      target,
		Origin:      path,
		SkipInvalid: skipInvalid,
	})
	if err != nil {
		return fmt.Errorf("failed to import table: %w", err)
	}

	cmd.Printf("Imported %d measurements on %s (import %s)\n", imp.Count, imp.Target, imp.ID)
	return nil
}

func runCatalogImportDir(cmd *cobra.Command, args []string) error {
	imports, err := catalogService.ImportDir(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to import tables: %w", err)
	}

	total := 0
	for _, imp := range imports {
		cmd.Printf("  %-8s %6d  %s\n", imp.Target, imp.Count, imp.ID)
		total += imp.Count
	}
	cmd.Printf("Imported %d measurements from %d tables\n", total, len(imports))
	return nil
}

func runCatalogImports(cmd *cobra.Command, _ []string) error {
	imports, err := catalogService.Imports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}

	if len(imports) == 0 {
		cmd.Println("No tables imported.")
		return nil
	}

	t := newTable(cmd.OutOrStdout(), 38, 10, 8, 21)
	t.Header("ID", "Target", "Rows", "Imported", "Origin")
	for _, imp := range imports {
		t.Row(imp.ID, imp.Target, strconv.Itoa(imp.Count),
			imp.ImportedAt.Local().Format("2006-01-02 15:04:05"), imp.Origin)
	}
	return nil
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	imp, err := catalogService.Remove(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to remove import: %w", err)
	}
	cmd.Printf("Import %s removed (%d measurements on %s from %s).\n",
		imp.ID, imp.Count, imp.Target, orDefault(imp.Origin, "unknown origin"))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	z, n, err := parseNucleus(args[0], args[1])
	if err != nil {
		return err
	}

	measurements, err := catalogService.Isotope(cmd.Context(), z, n)
	if err != nil {
		return fmt.Errorf("failed to look up nucleus: %w", err)
	}

	out := cmd.OutOrStdout()
	t := newTable(out, 14, 16, 10, 12)
	if len(measurements) == 0 {
		t.Note("No yields measured for Z=%d, N=%d", z, n)
		return nil
	}

	states := 0
	for i := range measurements {
		if measurements[i].State > states {
			states = measurements[i].State
		}
	}

	t.Title("Nucleus: %d%s (Z=%d, N=%d)", z+n, measurements[0].Symbol, z, n)
	t.Field("Number of states (ground + metastable)", states)

	for state := 1; state <= states; state++ {
		var rows []domain.Measurement
		for i := range measurements {
			if measurements[i].State == state {
				rows = append(rows, measurements[i])
			}
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintln(out)
		t.Title("%s", rows[0].Nuclide())
		t.Header("Yield (pps)", "Proton current", "Target", "Ion source", "Info")
		for _, m := range rows {
			t.Row(fmt.Sprintf("%.5e", m.Yield), strconv.Itoa(m.ProtonCurrent), m.Target,
				m.IonSource.String(), m.Info)
		}
	}
	return nil
}

func runCatalogSummary(cmd *cobra.Command, args []string) error {
	z, n, err := parseNucleus(args[0], args[1])
	if err != nil {
		return err
	}

	var source domain.IonSource
	if len(args) == 3 {
		if source, err = parseIonSource(args[2]); err != nil {
			return err
		}
	}

	summary, err := catalogService.Summary(cmd.Context(), z, n, source)
	if err != nil {
		return fmt.Errorf("failed to summarise nucleus: %w", err)
	}

	scope := "all ion sources"
	if source != "" {
		scope = source.String()
	}

	t := newTable(cmd.OutOrStdout())
	t.Title("Z=%d, N=%d (%s)", z, n, scope)
	t.Field("Measurements", summary.Count)
	t.Field("States", summary.States)
	t.Field("Mean intensity (pps)", fmt.Sprintf("%.5e", summary.AverageYield))
	t.Field("Max intensity (pps)", fmt.Sprintf("%.5e", summary.MaxYield))
	return nil
}

func runCatalogMatrix(cmd *cobra.Command, args []string) error {
	var source domain.IonSource
	if len(args) == 1 {
		var err error
		if source, err = parseIonSource(args[0]); err != nil {
			return err
		}
	}

	kind := domain.IntensityMean
	label := "Mean intensity (pps)"
	if matrixMax {
		kind = domain.IntensityMax
		label = "Max intensity (pps)"
	}

	matrix, err := catalogService.Matrix(cmd.Context(), source, kind)
	if err != nil {
		return fmt.Errorf("failed to build intensity matrix: %w", err)
	}

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		fmt.Fprintf(out, "N\tZ\t%s\n", label)
		for _, cell := range matrix {
			fmt.Fprintf(out, "%d\t%d\t%.5e\n", cell.N, cell.Z, cell.Value)
		}
		return nil
	}

	t := newTable(out, 6, 6)
	if len(matrix) == 0 {
		t.Note("No yields stored")
		return nil
	}
	t.Header("N", "Z", label)
	for _, cell := range matrix {
		t.Row(strconv.Itoa(cell.N), strconv.Itoa(cell.Z), fmt.Sprintf("%.5e", cell.Value))
	}
	return nil
}

// parseIonSource reads a known ion source argument.
func parseIonSource(arg string) (domain.IonSource, error) {
	source := domain.ParseIonSource(arg)
	if !source.IsKnown() {
		return "", fmt.Errorf("%w: unknown ion source %q", domain.ErrInvalidInput, arg)
	}
	return source, nil
}

// parseNucleus reads Z and N arguments.
func parseNucleus(zArg, nArg string) (int, int, error) {
	z, err := strconv.Atoi(strings.TrimSpace(zArg))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: Z must be an integer, got %q", domain.ErrInvalidInput, zArg)
	}
	n, err := strconv.Atoi(strings.TrimSpace(nArg))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: N must be an integer, got %q", domain.ErrInvalidInput, nArg)
	}
	return z, n, nil
}

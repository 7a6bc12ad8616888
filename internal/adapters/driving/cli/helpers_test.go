package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yieldgrab/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
	"github.com/custodia-labs/yieldgrab/internal/core/services"
	"github.com/custodia-labs/yieldgrab/internal/logger"
)

const sampleDump = `<html>
<span>12 records retrieved on 2014-03-05</span>
<td><sup>98</sup><sub>38</sub><b>Sr</b></td>
    Sr98g    
<td>1.23E7</td><td>2</td><td>Ta surface</td>
   cooldown test   
<script>PrimeFaces.cw("DataTable","yields",{});</script>
</html>
`

const sampleTable = "Isotope\tState\tIntensity (pps)\tProton current\tIon source\tInfo\n" +
	"37Rb\tRb98g\t2.0E6\t2\tRe surface\tground\n" +
	"37Rb\tRb98m1\t4.0E5\t10\tTRILIS\tisomer\n" +
	"37Rb\tRb98g\t6.0E6\t10\tTRILIS\tlaser on\n" +
	"38Sr\tSr98g\t1.23E7\t2\tTa surface\tcooldown test\n"

// setupTestServices wires real services over an in-memory catalog and
// restores the package state afterwards.
func setupTestServices() func() {
	SetServices(Services{
		Extraction: services.NewExtractionService(),
		Catalog: func(_ context.Context, _ *domain.AppSettings) (driving.CatalogService, func() error, error) {
			return services.NewCatalogService(memory.NewCatalogStore()), func() error { return nil }, nil
		},
	})

	return func() {
		SetServices(Services{})
		verbose = false
		skipInvalid = false
		matrixMax = false
		logger.SetVerbose(false)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// runCommand executes a command line and returns what it printed.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ltable/pkg/loader"
	"github.com/oakwood-commons/ltable/pkg/logger"
)

// openInput opens path, or the command's stdin when path is empty or "-".
// The input path is recorded in the run settings.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	p := runParams()
	p.Input.Path = path
	if p.Input.FromStdin() {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// readTable reads tabular data from path or stdin. A file extension decides the
// format when format is auto; otherwise the content does.
func readTable(cmd *cobra.Command, path string, format loader.Format) (loader.Table, error) {
	in, err := openInput(cmd, path)
	if err != nil {
		return loader.Table{}, err
	}
	defer func() { _ = in.Close() }()

	data, err := io.ReadAll(in)
	if err != nil {
		return loader.Table{}, fmt.Errorf("read input: %w", err)
	}
	if format == loader.FormatAuto && !runParams().Input.FromStdin() {
		format = loader.FormatFromPath(path)
	}
	t, err := loader.Load(data, format)
	if err != nil {
		return loader.Table{}, err
	}
	logger.FromContext(rootCtx).V(1).Info("read table", "format", t.Format, "columns", len(t.Headers), "rows", len(t.Rows))
	return t, nil
}

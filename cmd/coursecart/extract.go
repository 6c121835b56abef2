// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coursecart/internal/archive"
	"coursecart/internal/template"
)

var (
	extractForce bool

	// extractCmd unpacks a cartridge back into an editable template tree.
	extractCmd = &cobra.Command{
		Use:   "extract <package> [dir]",
		Short: "Unpack a .imscc cartridge into an editable template directory",
		Long: `Unpack a Common Cartridge package into the editable template form.

Pages, quizzes, assignments and course structure are reconstructed as
plain files; anything the tool does not model is copied through
byte-for-byte with a warning, so a re-build loses nothing.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runExtract,
	}
)

func init() {
	extractCmd.Flags().BoolVarP(&extractForce, "force", "f", false, "extract into a non-empty directory")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pkgPath := args[0]
	dir := strings.TrimSuffix(pkgPath, ".imscc")
	if len(args) > 1 {
		dir = args[1]
	}

	if !extractForce {
		if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
			return fmt.Errorf("directory '%s' is not empty. Use --force to extract anyway", dir)
		}
	}

	files, err := archive.Read(pkgPath)
	if err != nil {
		return err
	}
	tree, warnings, err := template.Extract(files)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w.Message, "path", w.Path)
	}
	if err := tree.WriteTo(dir); err != nil {
		return err
	}

	if verbose {
		for _, f := range tree.Files() {
			fmt.Printf("  %s\n", PathStyle.Render(f.Path))
		}
	}
	fmt.Printf("%s Extracted %d files into %s\n",
		SuccessStyle.Render("✓"), len(tree.Files()), PathStyle.Render(dir))
	return nil
}

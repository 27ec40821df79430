package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refinery/internal/extract"
)

const configTemplate = `# refinery configuration
data_dir: data
warehouse: warehouse.db
state_path: .refinery/state.db
environment: dev
`

// Sample sources carry the kinds of defects the cleaning rules reject:
// blacklisted and malformed emails, duplicate ids, unknown categories,
// out-of-range amounts, and impossible dates.
const sampleCustomers = `customer_id,name,email
1,Alice Johnson,alice@example.com
2,Bob Smith,invalid.email@
3,Carol White,test@test.com
4,,dave@example.com
5,Eve Black,eve@example.com
5,Eve Duplicate,eve.dup@example.com
`

const sampleProducts = `product_id,name,category,price
101,Laptop,ELECTRONICS,999.99
102,Novel,books,12.50
103,Blender,home,89.00
103,Blender,home,89.00
104,Gadget,Gadgets,25000
`

const sampleTransactions = `transaction_id,customer_id,product_id,amount,date
1001,1,101,999.99,2024-01-15
1002,2,102,12.50,2024/02/03
1003,9,101,999.99,2024-01-20
1004,1,103,89.00,2023-02-30
1004,1,103,89.00,2023-03-01
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Scaffold a new refinery project",
		Long: `Create a refinery.yaml config file and a data directory with sample
source CSVs. The samples include dirty rows so a first run exercises the
cleaning rules.`,
		Example: `  # Scaffold in the current directory
  refinery init

  # Scaffold into a new directory
  refinery init retail-pipeline`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	files := map[string]string{
		"refinery.yaml": configTemplate,
		filepath.Join("data", extract.CustomersFile):    sampleCustomers,
		filepath.Join("data", extract.ProductsFile):     sampleProducts,
		filepath.Join("data", extract.TransactionsFile): sampleTransactions,
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized refinery project in %s\n", dir)
	fmt.Fprintln(out, "Run the pipeline with: refinery run")
	return nil
}

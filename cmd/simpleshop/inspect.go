package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/types"
)

func (cli *CLI) newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the whole catalog tree",
		Args:  cobra.NoArgs,
		RunE:  cli.runShow,
	}
	addVisibilityFlags(cmd.Flags())
	return cmd
}

func (cli *CLI) runShow(cmd *cobra.Command, args []string) error {
	const operation = "show catalog"

	formatter, err := NewOutputFormatter(cli.format(), cli.out)
	if err != nil {
		return err
	}
	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	actor := cli.actorFromFlags(cmd.Flags())

	var categories []*catalog.Category
	if all {
		categories = m.Categories()
	} else {
		categories = m.SortedCategories(actor)
	}

	views := make([]containerView, 0, len(categories))
	for _, c := range categories {
		v := newContainerView(c, true)
		subs := c.SubCategories()
		if !all {
			if subs, err = m.SortedSubCategories(c.ID(), actor); err != nil {
				return WrapError(operation, err)
			}
		}
		for _, sub := range subs {
			v.SubCategories = append(v.SubCategories, newContainerView(sub, true))
		}
		views = append(views, v)
	}

	return formatter.Write(views, func(w io.Writer) { writeTree(w, views) })
}

// writeTree renders categories with their sub-categories and items indented
// below them
func writeTree(w io.Writer, views []containerView) {
	fmt.Fprintln(w, "ENTRY\tPRIORITY\tPERMISSION\tBUY\tSELL")
	for _, c := range views {
		writeTreeContainer(w, c, "")
		for _, sub := range c.SubCategories {
			writeTreeContainer(w, sub, "  ")
		}
	}
}

func writeTreeContainer(w io.Writer, v containerView, indent string) {
	name := v.Name
	if v.Hidden {
		name += " (hidden)"
	}
	fmt.Fprintf(w, "%s%s [%s]\t%d\t%s\t\t\n", indent, name, v.ID, v.Priority, v.Permission)
	for _, item := range v.Items {
		fmt.Fprintf(w, "%s  - %s\t\t\t%s\t%s\n", indent, item.ID, price(item.Buy, item.CanBuy), price(item.Sell, item.CanSell))
	}
}

func price(p float64, enabled bool) string {
	if !enabled {
		return "-"
	}
	return fmt.Sprintf("%g", p)
}

func (cli *CLI) newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the shop document as JSON or YAML",
		Long: `export prints the document exactly as the shop would write it, keys in
order. --format yaml renders the same tree as YAML; any other format is JSON.`,
		Args: cobra.NoArgs,
		RunE: cli.runExport,
	}
}

func (cli *CLI) runExport(cmd *cobra.Command, args []string) error {
	const operation = "export catalog"

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}

	doc := types.NewObject()
	for _, c := range m.Categories() {
		doc.Set(c.ID(), c.ToRecord())
	}

	if cli.format() == "yaml" {
		return writeYAML(cli.out, doc)
	}
	return writeJSON(cli.out, doc)
}

func (cli *CLI) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the shop document loads",
		Long: `validate loads the document without changing it. A broken category fails
the check; broken items and sub-categories are listed, since loading drops
them.`,
		Args: cobra.NoArgs,
		RunE: cli.runValidate,
	}
}

func (cli *CLI) runValidate(cmd *cobra.Command, args []string) error {
	m, err := cli.openShop("validate document")
	if err != nil {
		return err
	}

	skipped := m.Skipped()
	fmt.Fprintf(cli.out, "%s: %d categories loaded, %d entries dropped\n", m.Path(), len(m.Categories()), len(skipped))
	for _, s := range skipped {
		fmt.Fprintf(cli.out, "  dropped %s: %v\n", s.Path, s.Err)
	}
	return nil
}

func (cli *CLI) newPermissionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the permissions the catalog registers",
		Args:  cobra.NoArgs,
		RunE:  cli.runPermissions,
	}
}

func (cli *CLI) runPermissions(cmd *cobra.Command, args []string) error {
	const operation = "list permissions"

	if _, err := cli.openShop(operation); err != nil {
		return err
	}

	type permissionView struct {
		ID          string   `json:"id" yaml:"id"`
		Description string   `json:"description" yaml:"description"`
		Children    []string `json:"children,omitempty" yaml:"children,omitempty"`
	}
	var views []permissionView
	for _, id := range cli.registry.IDs() {
		desc, _ := cli.registry.Description(id)
		views = append(views, permissionView{ID: id, Description: desc, Children: cli.registry.Children(id)})
	}

	formatter, err := NewOutputFormatter(cli.format(), cli.out)
	if err != nil {
		return err
	}
	return formatter.Write(views, func(w io.Writer) {
		fmt.Fprintln(w, "PERMISSION\tDESCRIPTION\tCHILDREN")
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Description, strings.Join(v.Children, ","))
		}
	})
}

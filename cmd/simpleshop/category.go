package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/permission"
	"github.com/arthur-debert/simpleshop/types"
)

// addAttributeFlags declares the flags shared by category and sub-category
// add and edit
func addAttributeFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "new display name; the id never changes")
	flags.String("description", "", "description shown in menus")
	flags.Int("priority", 0, "sort order, lowest first")
	flags.String("image-source", "", "icon source")
	flags.String("image-type", types.ImageTypePath.String(),
		fmt.Sprintf("how image-source is read (%s)", strings.Join(types.ImageTypeValues(), ", ")))
	flags.Bool("hidden", false, "only show to holders of the permission")
	flags.String("permission", "", "permission granting access (generated when empty)")
}

// applyAttributeFlags overlays the flags the user set on attrs
func applyAttributeFlags(operation string, flags *pflag.FlagSet, attrs catalog.Attributes) (catalog.Attributes, error) {
	if flags.Changed("name") {
		attrs.Name, _ = flags.GetString("name")
	}
	if flags.Changed("description") {
		attrs.Description, _ = flags.GetString("description")
	}
	if flags.Changed("priority") {
		attrs.Priority, _ = flags.GetInt("priority")
	}
	if flags.Changed("image-source") {
		attrs.ImageSource, _ = flags.GetString("image-source")
	}
	if flags.Changed("image-type") {
		raw, _ := flags.GetString("image-type")
		t, err := parseImageType(operation, raw)
		if err != nil {
			return attrs, err
		}
		attrs.ImageType = t
	}
	if flags.Changed("hidden") {
		attrs.Hidden, _ = flags.GetBool("hidden")
	}
	if flags.Changed("permission") {
		attrs.Permission, _ = flags.GetString("permission")
	}

	if strings.TrimSpace(attrs.Name) == "" {
		return attrs, NewValidationError(operation, "name", attrs.Name, "Names cannot be empty")
	}
	return attrs, nil
}

func parseImageType(operation, raw string) (types.ImageType, error) {
	t, ok := types.ParseImageType(raw)
	if !ok {
		return t, NewValidationError(operation, "image type", raw,
			fmt.Sprintf("Supported types: %s", strings.Join(types.ImageTypeValues(), ", ")))
	}
	return t, nil
}

// addVisibilityFlags declares --as and --all for list commands
func addVisibilityFlags(flags *pflag.FlagSet) {
	flags.StringSlice("as", nil, "list as an actor holding these permissions")
	flags.Bool("all", false, "list everything in insertion order, hidden entries included")
}

// actorFromFlags resolves --as against the registry, so granting a parent
// permission also grants its children. Call it after openShop has synced
// the registry.
func (cli *CLI) actorFromFlags(flags *pflag.FlagSet) permission.Actor {
	grants, _ := flags.GetStringSlice("as")
	return cli.registry.Actor(grants...)
}

func (cli *CLI) newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage top-level categories",
	}

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE:  cli.runCategoryAdd,
	}
	addAttributeFlags(addCmd.Flags())

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a category's attributes, keeping its contents",
		Args:  cobra.ExactArgs(1),
		RunE:  cli.runCategoryEdit,
	}
	addAttributeFlags(editCmd.Flags())

	removeCmd := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove a category and everything in it",
		Args:    cobra.ExactArgs(1),
		RunE:    cli.runCategoryRemove,
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories the way a shopper sees them",
		Args:    cobra.NoArgs,
		RunE:    cli.runCategoryList,
	}
	addVisibilityFlags(listCmd.Flags())

	cmd.AddCommand(addCmd, editCmd, removeCmd, listCmd)
	return cmd
}

func (cli *CLI) runCategoryAdd(cmd *cobra.Command, args []string) error {
	const operation = "add category"

	attrs, err := applyAttributeFlags(operation, cmd.Flags(), catalog.Attributes{Name: args[0]})
	if err != nil {
		return err
	}

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}

	c, err := catalog.NewCategory(attrs)
	if err != nil {
		return NewValidationError(operation, "name", args[0], err.Error())
	}
	if _, exists := m.GetCategory(c.ID()); exists {
		return NewConflictError(operation, "category", c.ID(), CommonSuggestions.UseEdit)
	}

	if err := m.AddCategory(c); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Added category %q\n", c.ID())
	return nil
}

func (cli *CLI) runCategoryEdit(cmd *cobra.Command, args []string) error {
	const operation = "edit category"

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}

	c, ok := m.GetCategory(args[0])
	if !ok {
		return NewNotFoundError(operation, "category", args[0], CommonSuggestions.CheckID)
	}
	attrs, err := applyAttributeFlags(operation, cmd.Flags(), c.Attributes())
	if err != nil {
		return err
	}

	if err := m.AddCategory(c.WithAttributes(attrs)); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Updated category %q\n", c.ID())
	return nil
}

func (cli *CLI) runCategoryRemove(cmd *cobra.Command, args []string) error {
	const operation = "remove category"

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	if _, ok := m.GetCategory(args[0]); !ok {
		return NewNotFoundError(operation, "category", args[0], CommonSuggestions.CheckID)
	}

	if err := m.RemoveCategory(args[0]); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Removed category %q\n", args[0])
	return nil
}

func (cli *CLI) runCategoryList(cmd *cobra.Command, args []string) error {
	const operation = "list categories"

	formatter, err := NewOutputFormatter(cli.format(), cli.out)
	if err != nil {
		return err
	}
	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}

	var categories []*catalog.Category
	if all, _ := cmd.Flags().GetBool("all"); all {
		categories = m.Categories()
	} else {
		categories = m.SortedCategories(cli.actorFromFlags(cmd.Flags()))
	}

	views := make([]containerView, 0, len(categories))
	for _, c := range categories {
		views = append(views, newContainerView(c, true))
	}
	return formatter.Write(views, func(w io.Writer) { writeContainerTable(w, views) })
}

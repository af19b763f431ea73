package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/simpleshop/catalog"
)

func (cli *CLI) newSubCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subcategory",
		Aliases: []string{"sub"},
		Short:   "Manage sub-categories inside a category",
	}

	addCmd := &cobra.Command{
		Use:   "add CATEGORY NAME",
		Short: "Add a sub-category",
		Args:  cobra.ExactArgs(2),
		RunE:  cli.runSubCategoryAdd,
	}
	addAttributeFlags(addCmd.Flags())

	editCmd := &cobra.Command{
		Use:   "edit CATEGORY ID",
		Short: "Change a sub-category's attributes, keeping its items",
		Args:  cobra.ExactArgs(2),
		RunE:  cli.runSubCategoryEdit,
	}
	addAttributeFlags(editCmd.Flags())

	removeCmd := &cobra.Command{
		Use:     "remove CATEGORY ID",
		Aliases: []string{"rm"},
		Short:   "Remove a sub-category and its items",
		Args:    cobra.ExactArgs(2),
		RunE:    cli.runSubCategoryRemove,
	}

	listCmd := &cobra.Command{
		Use:     "list CATEGORY",
		Aliases: []string{"ls"},
		Short:   "List a category's sub-categories the way a shopper sees them",
		Args:    cobra.ExactArgs(1),
		RunE:    cli.runSubCategoryList,
	}
	addVisibilityFlags(listCmd.Flags())

	cmd.AddCommand(addCmd, editCmd, removeCmd, listCmd)
	return cmd
}

func (cli *CLI) runSubCategoryAdd(cmd *cobra.Command, args []string) error {
	const operation = "add sub-category"
	categoryID, name := args[0], args[1]

	attrs, err := applyAttributeFlags(operation, cmd.Flags(), catalog.Attributes{Name: name})
	if err != nil {
		return err
	}

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	c, ok := m.GetCategory(categoryID)
	if !ok {
		return NewNotFoundError(operation, "category", categoryID, CommonSuggestions.CheckID)
	}

	sub, err := catalog.NewSubCategory(c.ID(), attrs)
	if err != nil {
		return NewValidationError(operation, "name", name, err.Error())
	}
	if _, exists := c.GetSubCategory(sub.ID()); exists {
		return NewConflictError(operation, "sub-category", sub.Ref().String(), CommonSuggestions.UseEdit)
	}

	if err := m.AddSubCategory(c.ID(), sub); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Added sub-category %q\n", sub.Ref().String())
	return nil
}

func (cli *CLI) runSubCategoryEdit(cmd *cobra.Command, args []string) error {
	const operation = "edit sub-category"
	ref := catalog.Ref{CategoryID: args[0], SubCategoryID: args[1]}

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	c, ok := m.GetCategory(ref.CategoryID)
	if !ok {
		return NewNotFoundError(operation, "category", ref.CategoryID, CommonSuggestions.CheckID)
	}
	sub, ok := c.GetSubCategory(ref.SubCategoryID)
	if !ok {
		return NewNotFoundError(operation, "sub-category", ref.String(), CommonSuggestions.CheckID)
	}

	attrs, err := applyAttributeFlags(operation, cmd.Flags(), sub.Attributes())
	if err != nil {
		return err
	}
	if err := m.AddSubCategory(c.ID(), sub.WithAttributes(attrs)); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Updated sub-category %q\n", ref.String())
	return nil
}

func (cli *CLI) runSubCategoryRemove(cmd *cobra.Command, args []string) error {
	const operation = "remove sub-category"
	ref := catalog.Ref{CategoryID: args[0], SubCategoryID: args[1]}

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	if _, err := m.GetContainer(ref); err != nil {
		return NewNotFoundError(operation, "sub-category", ref.String(), CommonSuggestions.CheckID)
	}

	if err := m.RemoveSubCategory(ref.CategoryID, ref.SubCategoryID); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Removed sub-category %q\n", ref.String())
	return nil
}

func (cli *CLI) runSubCategoryList(cmd *cobra.Command, args []string) error {
	const operation = "list sub-categories"

	formatter, err := NewOutputFormatter(cli.format(), cli.out)
	if err != nil {
		return err
	}
	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}

	var subs []*catalog.SubCategory
	if all, _ := cmd.Flags().GetBool("all"); all {
		c, ok := m.GetCategory(args[0])
		if !ok {
			return NewNotFoundError(operation, "category", args[0], CommonSuggestions.CheckID)
		}
		subs = c.SubCategories()
	} else {
		subs, err = m.SortedSubCategories(args[0], cli.actorFromFlags(cmd.Flags()))
		if err != nil {
			return WrapError(operation, err)
		}
	}

	views := make([]containerView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, newContainerView(sub, true))
	}
	return formatter.Write(views, func(w io.Writer) { writeContainerTable(w, views) })
}

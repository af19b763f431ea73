package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/simpleshop/catalog"
)

func addItemFlags(flags *pflag.FlagSet) {
	flags.String("data", "", "item payload data, base64 encoded")
	flags.String("data-file", "", "read the item payload data from a file")
	flags.Float64("buy", 0, "price a shopper pays")
	flags.Float64("sell", 0, "price a shopper is paid")
	flags.Bool("no-buy", false, "do not let shoppers buy the item")
	flags.Bool("no-sell", false, "do not let shoppers sell the item")
	flags.String("image-source", "", "icon source")
	flags.String("image-type", "path", "how image-source is read")
}

// readPayloadData resolves --data or --data-file; ok is false when neither
// was given
func readPayloadData(operation string, flags *pflag.FlagSet) (data []byte, ok bool, err error) {
	encoded, _ := flags.GetString("data")
	file, _ := flags.GetString("data-file")

	switch {
	case flags.Changed("data") && flags.Changed("data-file"):
		return nil, false, &CLIError{
			Operation:   operation,
			Cause:       "--data and --data-file cannot be combined",
			Suggestions: []string{CommonSuggestions.CheckFlags},
		}
	case flags.Changed("data"):
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, false, NewValidationError(operation, "payload data", encoded, "--data must be standard base64")
		}
		return data, true, nil
	case flags.Changed("data-file"):
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, false, &CLIError{
				Operation:   operation,
				Cause:       "cannot read payload file",
				Details:     err.Error(),
				Suggestions: []string{CommonSuggestions.CheckPerms},
				Underlying:  err,
			}
		}
		return data, true, nil
	}
	return nil, false, nil
}

// applyItemFlags overlays the pricing and display flags the user set on opts
func applyItemFlags(operation string, flags *pflag.FlagSet, opts catalog.ItemOptions) (catalog.ItemOptions, error) {
	if flags.Changed("buy") {
		opts.BuyPrice, _ = flags.GetFloat64("buy")
	}
	if flags.Changed("sell") {
		opts.SellPrice, _ = flags.GetFloat64("sell")
	}
	for _, p := range []struct {
		field string
		value float64
	}{{"buy price", opts.BuyPrice}, {"sell price", opts.SellPrice}} {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return opts, NewValidationError(operation, p.field, fmt.Sprint(p.value), "Prices must be finite numbers")
		}
	}
	if opts.BuyPrice < 0 {
		return opts, NewValidationError(operation, "buy price", fmt.Sprint(opts.BuyPrice), "Prices cannot be negative")
	}
	if opts.SellPrice < 0 {
		return opts, NewValidationError(operation, "sell price", fmt.Sprint(opts.SellPrice), "Prices cannot be negative")
	}

	if flags.Changed("no-buy") {
		noBuy, _ := flags.GetBool("no-buy")
		opts.CanBuy = !noBuy
	}
	if flags.Changed("no-sell") {
		noSell, _ := flags.GetBool("no-sell")
		opts.CanSell = !noSell
	}
	if flags.Changed("image-source") {
		opts.ImageSource, _ = flags.GetString("image-source")
	}
	if flags.Changed("image-type") {
		raw, _ := flags.GetString("image-type")
		t, err := parseImageType(operation, raw)
		if err != nil {
			return opts, err
		}
		opts.ImageType = t
	}
	return opts, nil
}

func parseContainer(operation, raw string) (catalog.Ref, error) {
	ref, err := catalog.ParseRef(raw)
	if err != nil {
		return ref, NewValidationError(operation, "container", raw,
			"Use CATEGORY or CATEGORY/SUBCATEGORY")
	}
	return ref, nil
}

func (cli *CLI) newItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items a category or sub-category sells",
		Long: `Items live in a container, addressed as CATEGORY or CATEGORY/SUBCATEGORY.
An item's id is derived from its name.`,
	}

	addCmd := &cobra.Command{
		Use:   "add CONTAINER NAME",
		Short: "Add an item",
		Args:  cobra.ExactArgs(2),
		RunE:  cli.runItemAdd,
	}
	addItemFlags(addCmd.Flags())

	editCmd := &cobra.Command{
		Use:   "edit CONTAINER ID",
		Short: "Change an item's prices, toggles, image or payload",
		Args:  cobra.ExactArgs(2),
		RunE:  cli.runItemEdit,
	}
	addItemFlags(editCmd.Flags())
	editCmd.Flags().String("name", "", "rename the payload; the item gets the id derived from it")

	removeCmd := &cobra.Command{
		Use:     "remove CONTAINER ID",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(2),
		RunE:    cli.runItemRemove,
	}

	listCmd := &cobra.Command{
		Use:     "list CONTAINER",
		Aliases: []string{"ls"},
		Short:   "List a container's items",
		Args:    cobra.ExactArgs(1),
		RunE:    cli.runItemList,
	}

	cmd.AddCommand(addCmd, editCmd, removeCmd, listCmd)
	return cmd
}

func (cli *CLI) runItemAdd(cmd *cobra.Command, args []string) error {
	const operation = "add item"
	name := args[1]

	ref, err := parseContainer(operation, args[0])
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return NewValidationError(operation, "name", name, "Names cannot be empty")
	}
	data, _, err := readPayloadData(operation, cmd.Flags())
	if err != nil {
		return err
	}
	opts, err := applyItemFlags(operation, cmd.Flags(), catalog.ItemOptions{CanBuy: true, CanSell: true})
	if err != nil {
		return err
	}

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	container, err := m.GetContainer(ref)
	if err != nil {
		return WrapError(operation, err)
	}

	item, err := catalog.NewItem(catalog.BlobCodec{}, &catalog.Blob{Name: name, Data: data}, opts)
	if err != nil {
		return WrapError(operation, err)
	}
	if _, exists := container.GetItem(item.ID()); exists {
		return NewConflictError(operation, "item", ref.String()+":"+item.ID(), CommonSuggestions.UseEdit)
	}

	if err := m.AddItem(ref, item); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Added item %q to %q\n", item.ID(), ref.String())
	return nil
}

func (cli *CLI) runItemEdit(cmd *cobra.Command, args []string) error {
	const operation = "edit item"
	itemID := args[1]

	ref, err := parseContainer(operation, args[0])
	if err != nil {
		return err
	}
	data, hasData, err := readPayloadData(operation, cmd.Flags())
	if err != nil {
		return err
	}

	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	container, err := m.GetContainer(ref)
	if err != nil {
		return WrapError(operation, err)
	}
	existing, ok := container.GetItem(itemID)
	if !ok {
		return NewNotFoundError(operation, "item", ref.String()+":"+itemID, CommonSuggestions.CheckID)
	}

	opts, err := applyItemFlags(operation, cmd.Flags(), existing.Options())
	if err != nil {
		return err
	}

	blob, ok := existing.Payload().(*catalog.Blob)
	if !ok {
		return &CLIError{Operation: operation, Cause: fmt.Sprintf("unsupported payload type %T", existing.Payload())}
	}
	if hasData {
		blob.Data = data
	}
	if cmd.Flags().Changed("name") {
		blob.Name, _ = cmd.Flags().GetString("name")
		if strings.TrimSpace(blob.Name) == "" {
			return NewValidationError(operation, "name", blob.Name, "Names cannot be empty")
		}
	}

	var item *catalog.Item
	if cmd.Flags().Changed("name") {
		item, err = catalog.NewItem(catalog.BlobCodec{}, blob, opts)
	} else {
		item, err = catalog.NewItemWithID(catalog.BlobCodec{}, existing.ID(), blob, opts)
	}
	if err != nil {
		return WrapError(operation, err)
	}
	if item.ID() != itemID {
		if _, taken := container.GetItem(item.ID()); taken {
			return NewConflictError(operation, "item", ref.String()+":"+item.ID())
		}
		err = m.ReplaceItem(ref, itemID, item)
	} else {
		err = m.AddItem(ref, item)
	}
	if err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Updated item %q in %q\n", item.ID(), ref.String())
	return nil
}

func (cli *CLI) runItemRemove(cmd *cobra.Command, args []string) error {
	const operation = "remove item"

	ref, err := parseContainer(operation, args[0])
	if err != nil {
		return err
	}
	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	container, err := m.GetContainer(ref)
	if err != nil {
		return WrapError(operation, err)
	}
	if _, ok := container.GetItem(args[1]); !ok {
		return NewNotFoundError(operation, "item", ref.String()+":"+args[1], CommonSuggestions.CheckID)
	}

	if err := m.RemoveItem(ref, args[1]); err != nil {
		return WrapError(operation, err)
	}
	fmt.Fprintf(cli.out, "Removed item %q from %q\n", args[1], ref.String())
	return nil
}

func (cli *CLI) runItemList(cmd *cobra.Command, args []string) error {
	const operation = "list items"

	formatter, err := NewOutputFormatter(cli.format(), cli.out)
	if err != nil {
		return err
	}
	ref, err := parseContainer(operation, args[0])
	if err != nil {
		return err
	}
	m, err := cli.openShop(operation)
	if err != nil {
		return err
	}
	container, err := m.GetContainer(ref)
	if err != nil {
		return WrapError(operation, err)
	}

	views := make([]itemView, 0)
	for _, item := range container.Items() {
		views = append(views, newItemView(item))
	}
	return formatter.Write(views, func(w io.Writer) { writeItemTable(w, views) })
}

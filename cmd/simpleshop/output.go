package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/simpleshop/catalog"
)

// itemView is how an item is shown; the payload is reduced to its size
type itemView struct {
	ID          string  `json:"id" yaml:"id"`
	Buy         float64 `json:"buy" yaml:"buy"`
	Sell        float64 `json:"sell" yaml:"sell"`
	CanBuy      bool    `json:"can_buy" yaml:"can_buy"`
	CanSell     bool    `json:"can_sell" yaml:"can_sell"`
	ImageSource string  `json:"image_source,omitempty" yaml:"image_source,omitempty"`
	ImageType   string  `json:"image_type" yaml:"image_type"`
	PayloadSize int     `json:"payload_size" yaml:"payload_size"`
}

type containerView struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Description   string          `json:"description,omitempty" yaml:"description,omitempty"`
	Priority      int             `json:"priority" yaml:"priority"`
	Hidden        bool            `json:"hidden" yaml:"hidden"`
	Permission    string          `json:"permission" yaml:"permission"`
	ImageSource   string          `json:"image_source,omitempty" yaml:"image_source,omitempty"`
	ImageType     string          `json:"image_type" yaml:"image_type"`
	Items         []itemView      `json:"items,omitempty" yaml:"items,omitempty"`
	SubCategories []containerView `json:"sub_categories,omitempty" yaml:"sub_categories,omitempty"`
}

func newItemView(item *catalog.Item) itemView {
	v := itemView{
		ID:          item.ID(),
		Buy:         item.BuyPrice(),
		Sell:        item.SellPrice(),
		CanBuy:      item.CanBuy(),
		CanSell:     item.CanSell(),
		ImageSource: item.ImageSource(),
		ImageType:   item.ImageType().String(),
	}
	if blob, ok := item.Payload().(*catalog.Blob); ok {
		v.PayloadSize = len(blob.Data)
	}
	return v
}

// newContainerView describes c; withItems controls whether its items are
// listed
func newContainerView(c catalog.Container, withItems bool) containerView {
	v := containerView{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Priority:    c.Priority(),
		Hidden:      c.Hidden(),
		Permission:  c.Permission(),
		ImageSource: c.ImageSource(),
		ImageType:   c.ImageType().String(),
	}
	if withItems {
		for _, item := range c.Items() {
			v.Items = append(v.Items, newItemView(item))
		}
	}
	return v
}

// newTreeView describes a category with everything below it
func newTreeView(c *catalog.Category) containerView {
	v := newContainerView(c, true)
	for _, sub := range c.SubCategories() {
		v.SubCategories = append(v.SubCategories, newContainerView(sub, true))
	}
	return v
}

// OutputFormatter writes command results as a table, JSON or YAML
type OutputFormatter struct {
	format string
	out    io.Writer
}

// NewOutputFormatter creates a formatter for format; an empty format is a
// table
func NewOutputFormatter(format string, out io.Writer) (*OutputFormatter, error) {
	switch format {
	case "":
		format = "table"
	case "table", "json", "yaml":
	default:
		return nil, NewValidationError("format output", "format", format,
			"Supported formats: table, json, yaml")
	}
	return &OutputFormatter{format: format, out: out}, nil
}

// Write renders data, using table for the table format
func (of *OutputFormatter) Write(data interface{}, table func(w io.Writer)) error {
	switch of.format {
	case "json":
		return writeJSON(of.out, data)
	case "yaml":
		return writeYAML(of.out, data)
	default:
		tw := tabwriter.NewWriter(of.out, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func writeYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// writeContainerTable lists containers one per row
func writeContainerTable(w io.Writer, views []containerView) {
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tHIDDEN\tPERMISSION\tITEMS")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\t%d\n", v.ID, v.Name, v.Priority, v.Hidden, v.Permission, len(v.Items))
	}
}

func writeItemTable(w io.Writer, views []itemView) {
	fmt.Fprintln(w, "ID\tBUY\tSELL\tCAN BUY\tCAN SELL\tIMAGE")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%g\t%g\t%t\t%t\t%s\n", v.ID, v.Buy, v.Sell, v.CanBuy, v.CanSell, v.ImageSource)
	}
}

package catalog

import (
	"fmt"
	"math"

	"github.com/arthur-debert/simpleshop/internal/validation"
	"github.com/arthur-debert/simpleshop/types"
)

// ItemOptions are the pricing and display settings of an item
type ItemOptions struct {
	BuyPrice    float64
	SellPrice   float64
	CanBuy      bool
	CanSell     bool
	ImageSource string
	ImageType   types.ImageType
}

// Item is an immutable shop entry wrapping an opaque payload. Changing an
// item means building a new one with the same id and replacing it in its
// container.
type Item struct {
	id      string
	payload Payload
	// encoded is the codec form of payload, captured at construction so
	// ToRecord cannot fail
	encoded string
	opts    ItemOptions
}

// NewItem builds an item whose id is derived from the payload's canonical
// name.
func NewItem(codec Codec, payload Payload, opts ItemOptions) (*Item, error) {
	return NewItemWithID(codec, DeriveID(payload.CanonicalName()), payload, opts)
}

// NewItemWithID builds an item with an explicit id, used when replacing an
// existing item.
func NewItemWithID(codec Codec, id string, payload Payload, opts ItemOptions) (*Item, error) {
	if id == "" {
		return nil, &ConstructionError{Kind: KindItem, ID: id, Err: ErrEmptyID}
	}
	if err := checkPrices(opts); err != nil {
		return nil, &ConstructionError{Kind: KindItem, ID: id, Err: err}
	}
	encoded, err := codec.Encode(payload)
	if err != nil {
		return nil, &ConstructionError{Kind: KindItem, ID: id, Err: &PayloadError{Op: "serialize", Err: err}}
	}
	return &Item{
		id:      id,
		payload: payload.Clone(),
		encoded: encoded,
		opts:    opts,
	}, nil
}

// ItemFromRecord rebuilds an item from its document record
func ItemFromRecord(codec Codec, id string, record *types.Object) (*Item, error) {
	item, err := itemFromRecord(codec, id, record)
	if err != nil {
		return nil, &ConstructionError{Kind: KindItem, ID: id, Err: err}
	}
	return item, nil
}

func itemFromRecord(codec Codec, id string, record *types.Object) (*Item, error) {
	if err := validation.RequireKeys(record, "nbt", "buy", "sell", "can_buy", "can_sell"); err != nil {
		return nil, err
	}

	encoded, err := validation.RequireString("nbt", record)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decode(encoded)
	if err != nil {
		return nil, &PayloadError{Op: "deserialize", Err: err}
	}

	var opts ItemOptions
	if opts.BuyPrice, err = validation.RequireFloat("buy", record); err != nil {
		return nil, err
	}
	if opts.SellPrice, err = validation.RequireFloat("sell", record); err != nil {
		return nil, err
	}
	if err := checkPrices(opts); err != nil {
		return nil, err
	}
	if opts.CanBuy, err = validation.RequireBool("can_buy", record); err != nil {
		return nil, err
	}
	if opts.CanSell, err = validation.RequireBool("can_sell", record); err != nil {
		return nil, err
	}
	if opts.ImageSource, opts.ImageType, err = readImage(record); err != nil {
		return nil, err
	}

	return &Item{id: id, payload: payload, encoded: encoded, opts: opts}, nil
}

// checkPrices rejects prices the document cannot hold
func checkPrices(opts ItemOptions) error {
	for _, p := range []struct {
		key   string
		value float64
	}{{"buy", opts.BuyPrice}, {"sell", opts.SellPrice}} {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s: %w", p.key, ErrInvalidPrice)
		}
	}
	return nil
}

func (i *Item) ID() string                 { return i.id }
func (i *Item) BuyPrice() float64          { return i.opts.BuyPrice }
func (i *Item) SellPrice() float64         { return i.opts.SellPrice }
func (i *Item) CanBuy() bool               { return i.opts.CanBuy }
func (i *Item) CanSell() bool              { return i.opts.CanSell }
func (i *Item) ImageSource() string        { return i.opts.ImageSource }
func (i *Item) ImageType() types.ImageType { return i.opts.ImageType }

// Options returns the item's settings
func (i *Item) Options() ItemOptions { return i.opts }

// Payload returns a copy of the wrapped payload
func (i *Item) Payload() Payload {
	return i.payload.Clone()
}

// EncodedPayload returns the payload in its codec form
func (i *Item) EncodedPayload() string {
	return i.encoded
}

// WithOptions returns a new item with the same id and payload and the
// given settings.
func (i *Item) WithOptions(opts ItemOptions) *Item {
	return &Item{id: i.id, payload: i.payload, encoded: i.encoded, opts: opts}
}

// ToRecord converts the item to its document record
func (i *Item) ToRecord() *types.Object {
	obj := types.NewObject()
	obj.Set("nbt", i.encoded)
	obj.Set("buy", i.opts.BuyPrice)
	obj.Set("sell", i.opts.SellPrice)
	obj.Set("can_buy", i.opts.CanBuy)
	obj.Set("can_sell", i.opts.CanSell)
	obj.Set("image_source", i.opts.ImageSource)
	obj.Set("image_type", i.opts.ImageType.String())
	return obj
}

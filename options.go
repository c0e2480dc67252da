package ridgedb

import (
	"github.com/avoss/ridgedb/engine"
	"github.com/avoss/ridgedb/keycodec"
	"github.com/avoss/ridgedb/valueserializer"
)

// Options carries the configuration threaded through a database at Open
// time: the active value serializer and key codec, passthrough engine
// options, and an injectable Clock.
type Options struct {
	// Serializer converts cell values to and from bytes. Defaults to
	// valueserializer.StringSerializer{} when nil.
	Serializer valueserializer.Serializer

	// Codec encodes (row, column, timestamp) triples into engine keys.
	// Defaults to keycodec.SeparatorCodec{} when nil. Fixed for the
	// lifetime of a dataset; mixing codecs within one dataset is the
	// caller's responsibility to avoid.
	Codec keycodec.Codec

	// Clock supplies "now" for items whose timestamp is omitted from a
	// put_row call. Defaults to SystemClock{} when nil.
	Clock Clock

	// Engine carries passthrough options to the underlying per-dataset
	// engine (compression, open-file budget).
	Engine engine.Options
}

// DefaultOptions returns the Options used when Open is called with the
// zero value: the separator codec, the UTF-8 string serializer, the
// system clock, and engine.DefaultOptions().
func DefaultOptions() Options {
	return Options{
		Serializer: valueserializer.StringSerializer{},
		Codec:      keycodec.SeparatorCodec{},
		Clock:      SystemClock{},
		Engine:     engine.DefaultOptions(),
	}
}

// withDefaults fills any zero-valued field of o with its DefaultOptions()
// counterpart.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Serializer == nil {
		o.Serializer = d.Serializer
	}
	if o.Codec == nil {
		o.Codec = d.Codec
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.Engine == (engine.Options{}) {
		o.Engine = d.Engine
	}
	return o
}

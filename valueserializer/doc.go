// Package valueserializer converts between a cell's in-memory value and
// the bytes stored under its key. It defines one interface and three
// implementations with different performance and interoperability
// characteristics:
//
//   - StringSerializer: UTF-8 text. Default. Cheapest, no allocation
//     beyond the byte conversion itself.
//
//   - JSONSerializer: encoding/json. Accepts any JSON-marshalable value,
//     useful when cells hold structured data rather than plain text.
//
//   - SnappyJSONSerializer: JSON followed by snappy block compression.
//     Trades CPU for smaller values on disk; worthwhile for larger or
//     repetitive structured payloads.
//
// All three are stateless and safe for concurrent use across goroutines
// without additional synchronization.
package valueserializer

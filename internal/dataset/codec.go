package dataset

import (
	"reflect"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

// codec writes two-space indented JSON and leaves <, >, & and non-ASCII text unescaped.
var codec = jsoniter.Config{
	EscapeHTML:    false,
	SortMapKeys:   true,
	IndentionStep: 2,
}.Froze()

// compact renders a record on one line so its keys can be replayed in order.
var compact = jsoniter.Config{EscapeHTML: false}.Froze()

// loose decodes unmodelled values with numbers kept exact.
var loose = jsoniter.Config{EscapeHTML: false, UseNumber: true}.Froze()

var (
	playerKeys  = jsonKeys(reflect.TypeOf(players.Player{}))
	datasetKeys = jsonKeys(reflect.TypeOf(players.Dataset{}))
)

func marshal(v any) ([]byte, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// encodeDataset writes known keys in struct order, then extra keys sorted.
func encodeDataset(ds players.Dataset) ([]byte, error) {
	stream := codec.BorrowStream(nil)
	defer codec.ReturnStream(stream)

	obj := objectWriter{stream: stream}
	stream.WriteObjectStart()
	if len(ds.Categories) > 0 {
		obj.field("categories")
		stream.WriteVal(ds.Categories)
	}
	obj.field("players")
	writePlayers(stream, ds.Players)
	writeExtra(&obj, ds.Extra, datasetKeys)
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	out := make([]byte, 0, len(stream.Buffer())+1)
	out = append(out, stream.Buffer()...)
	return append(out, '\n'), nil
}

// decodeDataset decodes the typed document, then collects keys it does not model.
func decodeDataset(data []byte) (players.Dataset, error) {
	var ds players.Dataset
	if err := codec.Unmarshal(data, &ds); err != nil {
		return players.Dataset{}, err
	}
	var doc map[string]any
	if err := loose.Unmarshal(data, &doc); err != nil {
		return players.Dataset{}, err
	}
	ds.Extra = extraKeys(doc, datasetKeys)

	records, _ := doc["players"].([]any)
	for i, raw := range records {
		if i >= len(ds.Players) {
			break
		}
		if record, ok := raw.(map[string]any); ok {
			ds.Players[i].Extra = extraKeys(record, playerKeys)
		}
	}
	return ds, nil
}

type objectWriter struct {
	stream  *jsoniter.Stream
	started bool
}

func (w *objectWriter) field(name string) {
	if w.started {
		w.stream.WriteMore()
	}
	w.started = true
	w.stream.WriteObjectField(name)
}

func writePlayers(stream *jsoniter.Stream, items []players.Player) {
	if items == nil {
		items = []players.Player{}
	}
	if !anyExtra(items) {
		stream.WriteVal(items)
		return
	}
	stream.WriteArrayStart()
	for i, p := range items {
		if i > 0 {
			stream.WriteMore()
		}
		writePlayer(stream, p)
	}
	stream.WriteArrayEnd()
}

func writePlayer(stream *jsoniter.Stream, p players.Player) {
	if len(p.Extra) == 0 {
		stream.WriteVal(p)
		return
	}
	known, err := compact.Marshal(p)
	if err != nil {
		stream.Error = err
		return
	}
	iter := compact.BorrowIterator(known)
	defer compact.ReturnIterator(iter)

	obj := objectWriter{stream: stream}
	stream.WriteObjectStart()
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		obj.field(key)
		// Every modelled player field is a scalar, so the compact token is final.
		stream.WriteRaw(string(it.SkipAndReturnBytes()))
		return true
	})
	writeExtra(&obj, p.Extra, playerKeys)
	stream.WriteObjectEnd()
}

func writeExtra(obj *objectWriter, extra map[string]any, known map[string]struct{}) {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, ok := known[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		obj.field(k)
		obj.stream.WriteVal(extra[k])
	}
}

func anyExtra(items []players.Player) bool {
	for _, p := range items {
		if len(p.Extra) > 0 {
			return true
		}
	}
	return false
}

func extraKeys(record map[string]any, known map[string]struct{}) map[string]any {
	var extra map[string]any
	for k, v := range record {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

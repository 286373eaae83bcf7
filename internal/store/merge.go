package store

import (
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Patch is a partial update keyed by JSON field name. Fields present in
// the patch replace the corresponding top-level field; absent fields are
// kept.
type Patch map[string]interface{}

func (p Patch) clone() Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// mergeRaw overlays the top-level fields of patch onto base.
func mergeRaw[T any](base T, patch map[string]jsoniter.RawMessage) (T, error) {
	var out T
	data, err := json.Marshal(base)
	if err != nil {
		return out, errors.Wrap(err, "encode base")
	}
	fields := map[string]jsoniter.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return out, errors.Wrap(err, "split base")
	}
	if fields == nil {
		fields = map[string]jsoniter.RawMessage{}
	}
	structBase := reflect.TypeOf(base) != nil && reflect.TypeOf(base).Kind() == reflect.Struct
	for k, v := range patch {
		if structBase {
			k = fieldName(fields, k)
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, errors.Wrap(err, "encode merged")
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, errors.Wrap(err, "decode merged")
	}
	return out, nil
}

// fieldName maps a patch key onto the struct field it decodes into.
// Struct decoding matches names case-insensitively, so a key like "Name"
// next to the base's "name" would otherwise lose to it.
func fieldName(fields map[string]jsoniter.RawMessage, key string) string {
	if _, ok := fields[key]; ok {
		return key
	}
	for name := range fields {
		if strings.EqualFold(name, key) {
			zap.L().Warn("patch key differs in case from field",
				zap.String("key", key), zap.String("field", name))
			return name
		}
	}
	return key
}

// mergePatch is the shallow merge {...base, ...patch}.
func mergePatch[T any](base T, patch Patch) (T, error) {
	raw := make(map[string]jsoniter.RawMessage, len(patch))
	for k, v := range patch {
		b, err := json.Marshal(v)
		if err != nil {
			var zero T
			return zero, errors.Wrapf(err, "encode patch field %s", k)
		}
		raw[k] = b
	}
	return mergeRaw(base, raw)
}

// mergeEntity merges patch into an entity. The id field is never patched.
func mergeEntity[T any](base T, patch Patch) (T, error) {
	if _, ok := patch["id"]; ok {
		patch = patch.clone()
		delete(patch, "id")
	}
	return mergePatch(base, patch)
}

// deepCopy returns an independent copy of a settings value.
func deepCopy[T any](v T) T {
	out, err := mergeRaw(v, nil)
	if err != nil {
		return v
	}
	return out
}

package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Decoding errors. ErrPlainMap exists to catch a specific caller mistake:
// passing a decoded JSON map where a client-go object was expected. That
// path must go through FromMap instead of silently taking a different
// attribute-lookup branch.
var (
	ErrPlainMap     = errors.New("FromNative expects a GitLab client object, not a map; use FromMap for map-shaped data")
	ErrMissingField = errors.New("missing required field")
	ErrDecode       = errors.New("cannot decode field")
)

// FromNative builds a response model of type T from a native client-go
// object (or pointer to one), reading source attributes through the
// object's json tags. Passing a plain map is rejected with ErrPlainMap.
func FromNative[T any](obj any) (T, error) {
	var out T

	if obj == nil {
		return out, fmt.Errorf("%w: nil source for %T", ErrDecode, out)
	}

	if reflect.ValueOf(obj).Kind() == reflect.Map {
		return out, fmt.Errorf("%w (decoding %T)", ErrPlainMap, out)
	}

	if err := decodeStruct(structSource{reflect.ValueOf(obj)}, &out); err != nil {
		return out, err
	}

	return out, nil
}

// FromNativeList maps FromNative over a slice of native objects. The input
// may be any slice type, e.g. []*gitlab.Issue.
func FromNativeList[T any](objs any) ([]T, error) {
	if objs == nil {
		return []T{}, nil
	}

	rv := reflect.ValueOf(objs)
	if rv.Kind() != reflect.Slice {
		var zero T
		return nil, fmt.Errorf("%w: expected a slice, got %T (decoding %T)", ErrDecode, objs, zero)
	}

	out := make([]T, 0, rv.Len())

	for i := range rv.Len() {
		m, err := FromNative[T](rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out = append(out, m)
	}

	return out, nil
}

// FromMap builds a response model of type T from a plain key/value map,
// e.g. a deserialized JSON payload or a nested sub-object of one.
func FromMap[T any](m map[string]any) (T, error) {
	var out T

	if err := decodeStruct(mapSource(m), &out); err != nil {
		return out, err
	}

	return out, nil
}

// FromMapList maps FromMap over a list of maps ([]any elements are accepted
// as long as each element is a map).
func FromMapList[T any](ms []any) ([]T, error) {
	out := make([]T, 0, len(ms))

	for i, el := range ms {
		m, ok := el.(map[string]any)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: element %d is %T, not a map (decoding %T)", ErrDecode, i, el, zero)
		}

		decoded, err := FromMap[T](m)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out = append(out, decoded)
	}

	return out, nil
}

// source abstracts where raw field values come from: a map (key access) or
// a native struct (attribute access via json tag names).
type source interface {
	lookup(name string) (any, bool)
}

type mapSource map[string]any

func (m mapSource) lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

type structSource struct{ v reflect.Value }

func (s structSource) lookup(name string) (any, bool) {
	v := s.v
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || isInlineStruct(field) {
			continue
		}

		if sourceFieldName(field) != name {
			continue
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			return nil, false
		}

		return fv.Interface(), true
	}

	// Embedded structs are flattened on the wire, so their fields resolve
	// as if declared on the outer struct. Outer fields win on collision.
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || !isInlineStruct(field) {
			continue
		}

		if raw, ok := (structSource{v.Field(i)}).lookup(name); ok {
			return raw, true
		}
	}

	return nil, false
}

// isInlineStruct reports whether a field is an anonymous embedded struct
// (or pointer to one) whose fields are inlined in the JSON representation,
// the way client-go embeds BasicMergeRequest in MergeRequest.
func isInlineStruct(field reflect.StructField) bool {
	if !field.Anonymous {
		return false
	}

	tag := field.Tag.Get("json")
	if tag != "" && tag != "-" && !strings.HasPrefix(tag, ",") {
		return false
	}

	ft := field.Type
	if ft.Kind() == reflect.Pointer {
		ft = ft.Elem()
	}

	return ft.Kind() == reflect.Struct
}

// sourceFieldName returns the wire name of a native struct field: the json
// tag if present, the snake_cased Go name otherwise.
func sourceFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag != "" && tag != "-" {
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			tag = tag[:idx]
		}

		if tag != "" {
			return tag
		}
	}

	return toSnakeCase(field.Name)
}

// fieldSpec is the parsed declaration of a single model field.
type fieldSpec struct {
	name     string // source attribute/key name
	required bool
	conv     string // named before-validator from the converters table
	def      string // default for string-kinded fields when value is absent
}

func parseFieldSpec(field reflect.StructField) fieldSpec {
	spec := fieldSpec{
		name: toSnakeCase(field.Name),
		conv: field.Tag.Get("glconv"),
		def:  field.Tag.Get("gldefault"),
	}

	tag := field.Tag.Get("gl")
	if tag == "" {
		return spec
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		spec.name = parts[0]
	}

	for _, opt := range parts[1:] {
		if opt == "required" {
			spec.required = true
		}
	}

	return spec
}

// decodeStruct populates dst (pointer to a model struct) field by field
// from src. A blanket rule applies before any per-field handling: an empty
// string raw value is treated as absent, so declared defaults kick in and
// optional fields stay unset instead of carrying "". Zero scalars from a
// native struct are absent for the same reason.
func decodeStruct(src source, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	var errs error

	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		spec := parseFieldSpec(field)

		raw, ok := src.lookup(spec.name)
		if ok {
			if s, isStr := raw.(string); isStr && s == "" {
				ok = false
			}

			// A native struct cannot distinguish "not sent" from a zero
			// value, so a zero scalar read from one counts as absent.
			if _, native := src.(structSource); native && isZeroScalar(raw) {
				ok = false
			}
		}

		if !ok || raw == nil {
			if spec.def != "" {
				if err := setField(rv.Field(i), spec.def); err != nil {
					errs = errors.Join(errs, fmt.Errorf("field %q: %w", spec.name, err))
				}

				continue
			}

			if spec.required {
				errs = errors.Join(errs, fmt.Errorf("%w: %q on %s", ErrMissingField, spec.name, rt.Name()))
			}

			continue
		}

		if spec.conv != "" {
			converted, err := convert(spec.conv, raw)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("field %q: %w", spec.name, err))
				continue
			}

			raw = converted
			if raw == nil {
				continue
			}
		}

		if err := setField(rv.Field(i), raw); err != nil {
			errs = errors.Join(errs, fmt.Errorf("field %q: %w", spec.name, err))
		}
	}

	return errs
}

// setField assigns a raw source value to a destination field, applying the
// scalar, timestamp, slice, and nested-model coercions the models rely on.
//
//nolint:cyclop,gocognit // Reflection-based dispatch is inherently branchy.
func setField(dst reflect.Value, raw any) error {
	// Optional fields: a zero scalar from a native struct means the API did
	// not send the attribute, so the pointer stays nil.
	if dst.Kind() == reflect.Pointer {
		if isZeroScalar(raw) {
			return nil
		}

		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}

		return setField(dst.Elem(), raw)
	}

	switch dst.Kind() {
	case reflect.String:
		s, err := stringify(raw)
		if err != nil {
			return err
		}

		dst.SetString(s)

		return nil

	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("%w: %T into bool", ErrDecode, raw)
		}

		dst.SetBool(b)

		return nil

	case reflect.Int, reflect.Int64:
		n, err := toInt64(raw)
		if err != nil {
			return err
		}

		dst.SetInt(n)

		return nil

	case reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return fmt.Errorf("%w: %T into float64", ErrDecode, raw)
		}

		dst.SetFloat(f)

		return nil

	case reflect.Slice:
		return setSlice(dst, raw)

	case reflect.Map:
		rv := reflect.ValueOf(raw)
		if rv.Type().AssignableTo(dst.Type()) {
			dst.Set(rv)
			return nil
		}

		return fmt.Errorf("%w: %T into %s", ErrDecode, raw, dst.Type())

	case reflect.Struct:
		return decodeStruct(sourceFor(raw), dst.Addr().Interface())

	default:
		return fmt.Errorf("%w: unsupported destination kind %s", ErrDecode, dst.Kind())
	}
}

func setSlice(dst reflect.Value, raw any) error {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: %T into %s", ErrDecode, raw, dst.Type())
	}

	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}

	out := reflect.MakeSlice(dst.Type(), rv.Len(), rv.Len())

	for i := range rv.Len() {
		el := rv.Index(i).Interface()

		elDst := out.Index(i)
		if elDst.Kind() == reflect.Struct {
			if err := decodeStruct(sourceFor(el), elDst.Addr().Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}

			continue
		}

		if err := setField(elDst, el); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	dst.Set(out)

	return nil
}

// sourceFor picks the lookup strategy for a nested raw value.
func sourceFor(raw any) source {
	if m, ok := raw.(map[string]any); ok {
		return mapSource(m)
	}

	return structSource{reflect.ValueOf(raw)}
}

// stringify renders a raw value as the string the models store. Timestamps
// become ISO-8601 strings so the relative-time serializers can parse them.
func stringify(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case *time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case gitlab.ISOTime:
		return time.Time(v).Format(time.DateOnly), nil
	case *gitlab.ISOTime:
		return time.Time(*v).Format(time.DateOnly), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		// Named string types such as gitlab.VisibilityValue.
		if rv := reflect.ValueOf(raw); rv.Kind() == reflect.String {
			return rv.String(), nil
		}

		return "", fmt.Errorf("%w: %T into string", ErrDecode, raw)
	}
}

// toInt64 coerces JSON numbers, plain ints, and named integer types such
// as gitlab.AccessLevelValue.
func toInt64(raw any) (int64, error) {
	if n, err := cast.ToInt64E(raw); err == nil {
		return n, nil
	}

	if rv := reflect.ValueOf(raw); rv.CanInt() {
		return rv.Int(), nil
	}

	return 0, fmt.Errorf("%w: %T into int", ErrDecode, raw)
}

func isZeroScalar(raw any) bool {
	switch v := raw.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}

// lookupAny reads a named attribute from either a map or a native struct.
// Used by converters that accept both shapes.
func lookupAny(raw any, name string) (any, bool) {
	return sourceFor(raw).lookup(name)
}

// toSnakeCase converts a CamelCase field name to its snake_case wire form.
func toSnakeCase(s string) string {
	var b strings.Builder

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rune(s[i-1])) ||
				(i < len(s)-1 && unicode.IsLower(rune(s[i+1])))) {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}

// convert runs a named before-validator over a raw value.
func convert(name string, raw any) (any, error) {
	fn, ok := converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown converter %q", ErrDecode, name)
	}

	return fn(raw)
}

var converters = map[string]func(any) (any, error){
	"username":      convUsername,
	"usernameloose": convUsernameLoose,
	"usernames":     convUsernames,
	"userid":        convUserID,
	"users":         convUsers,
	"approvedby":    convApprovedBy,
	"shortsha":      convShortSHA,
	"dirtype":       convDirType,
	"title":         convTitle,
	"iid":           convIID,
	"jobnames":      convJobNames,
	"artifacts":     convArtifacts,
	"accesslevel":   convAccessLevel,
	"assetlinks":    convAssetLinks,
}

// convUsername accepts either a bare username string or an embedded user
// object/map and returns the username.
func convUsername(raw any) (any, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}

	if v, ok := lookupAny(raw, "username"); ok {
		return cast.ToString(v), nil
	}

	return nil, fmt.Errorf("%w: no username in %T", ErrDecode, raw)
}

// convUsernameLoose is convUsername with an "unknown" fallback instead of
// an error, for note authors where the API sometimes omits user details.
func convUsernameLoose(raw any) (any, error) {
	name, err := convUsername(raw)
	if err != nil {
		return "unknown", nil
	}

	return name, nil
}

// convUserID extracts the numeric id from an embedded user object,
// defaulting to 0.
func convUserID(raw any) (any, error) {
	if v, ok := lookupAny(raw, "id"); ok {
		n, err := toInt64(v)
		if err == nil {
			return int(n), nil
		}
	}

	return 0, nil
}

// convUsers unwraps a list of approval entries, each either a user object
// or a {user: {...}} wrapper, into the inner user objects.
func convUsers(raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return []any{}, nil
	}

	out := make([]any, 0, rv.Len())

	for i := range rv.Len() {
		el := rv.Index(i).Interface()
		if inner, ok := lookupAny(el, "user"); ok {
			el = inner
		}

		out = append(out, el)
	}

	return out, nil
}

// convApprovedBy reduces approval entries to usernames with an "unknown"
// fallback.
func convApprovedBy(raw any) (any, error) {
	unwrapped, err := convUsers(raw)
	if err != nil {
		return nil, err
	}

	entries := unwrapped.([]any)
	out := make([]string, 0, len(entries))

	for _, el := range entries {
		name, _ := convUsernameLoose(el)
		out = append(out, name.(string))
	}

	return out, nil
}

// convUsernames maps convUsername over a list of users. Falsy input
// short-circuits to an empty list.
func convUsernames(raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return []string{}, nil
	}

	out := make([]string, 0, rv.Len())

	for i := range rv.Len() {
		name, err := convUsername(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out = append(out, name.(string))
	}

	return out, nil
}

// convShortSHA truncates a commit SHA to its first 8 characters. Shorter
// values pass through unchanged.
func convShortSHA(raw any) (any, error) {
	s, err := stringify(raw)
	if err != nil {
		return nil, err
	}

	return shortSHA(s), nil
}

// convDirType maps repository tree entry types to the stable vocabulary:
// "tree" becomes "directory" and "blob" becomes "file".
func convDirType(raw any) (any, error) {
	switch raw {
	case "tree":
		return "directory", nil
	case "blob":
		return "file", nil
	default:
		return raw, nil
	}
}

// convTitle extracts the title from an embedded object (e.g. a milestone).
func convTitle(raw any) (any, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}

	if v, ok := lookupAny(raw, "title"); ok {
		return cast.ToString(v), nil
	}

	return nil, nil
}

// convIID extracts the iid from an embedded issue reference.
func convIID(raw any) (any, error) {
	switch raw.(type) {
	case int, int64, float64:
		return cast.ToInt(raw), nil
	}

	if v, ok := lookupAny(raw, "iid"); ok {
		return cast.ToInt(v), nil
	}

	return nil, fmt.Errorf("%w: no iid in %T", ErrDecode, raw)
}

// convJobNames reduces a list of job objects to their names.
func convJobNames(raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return []string{}, nil
	}

	out := make([]string, 0, rv.Len())

	for i := range rv.Len() {
		el := rv.Index(i).Interface()
		if s, ok := el.(string); ok {
			out = append(out, s)
			continue
		}

		name, ok := lookupAny(el, "name")
		if !ok || cast.ToString(name) == "" {
			out = append(out, "unknown")
			continue
		}

		out = append(out, cast.ToString(name))
	}

	return out, nil
}

// convArtifacts reduces a list of artifact objects to display names,
// preferring file_format over filename. Empty names survive here and are
// filtered at serialization time.
func convArtifacts(raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return nil, nil
	}

	out := make([]string, 0, rv.Len())

	for i := range rv.Len() {
		el := rv.Index(i).Interface()
		if s, ok := el.(string); ok {
			out = append(out, s)
			continue
		}

		if v, ok := lookupAny(el, "file_format"); ok && cast.ToString(v) != "" {
			out = append(out, cast.ToString(v))
			continue
		}

		v, _ := lookupAny(el, "filename")
		out = append(out, cast.ToString(v))
	}

	return out, nil
}

// convAssetLinks unwraps a release assets object into its links list.
func convAssetLinks(raw any) (any, error) {
	links, ok := lookupAny(raw, "links")
	if !ok {
		return nil, nil
	}

	rv := reflect.ValueOf(links)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, nil
	}

	out := make([]any, 0, rv.Len())
	for i := range rv.Len() {
		out = append(out, rv.Index(i).Interface())
	}

	return out, nil
}

// convAccessLevel converts numeric GitLab access levels to role names.
func convAccessLevel(raw any) (any, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}

	n64, err := toInt64(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %T as access level", ErrDecode, raw)
	}

	n := int(n64)

	names := map[int]string{
		10: "guest",
		20: "reporter",
		30: "developer",
		40: "maintainer",
		50: "owner",
	}

	if name, ok := names[n]; ok {
		return name, nil
	}

	return strconv.Itoa(n), nil
}

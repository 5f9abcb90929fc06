// Package photometa defines the canonical photo-metadata field set and the
// record type produced by extraction.
package photometa

// FieldType represents the JSON type expected for a field value.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
)

// Field describes one metadata field: its wire name, expected type and
// optional validator constraints (go-playground/validator tag syntax).
type Field struct {
	Name       string
	Type       FieldType
	Validators string
}

// Fields is the canonical, ordered field set. Every extracted record carries
// exactly these keys; each value is independently nullable.
var Fields = []Field{
	{Name: "photo_submitted_at", Type: TypeString},
	{Name: "photo_featured", Type: TypeBoolean},
	{Name: "photo_width", Type: TypeInteger, Validators: "min=1"},
	{Name: "photo_height", Type: TypeInteger, Validators: "min=1"},
	{Name: "photo_aspect_ratio", Type: TypeNumber, Validators: "gt=0"},
	{Name: "photo_description", Type: TypeString},
	{Name: "photographer_username", Type: TypeString},
	{Name: "photographer_first_name", Type: TypeString},
	{Name: "photographer_last_name", Type: TypeString},
	{Name: "exif_camera_make", Type: TypeString},
	{Name: "exif_camera_model", Type: TypeString},
	{Name: "year", Type: TypeInteger},
	{Name: "month", Type: TypeInteger, Validators: "min=1,max=12"},
	{Name: "day", Type: TypeInteger, Validators: "min=1,max=31"},
	{Name: "exif_iso", Type: TypeInteger, Validators: "min=1"},
	{Name: "exif_aperture_value", Type: TypeNumber, Validators: "gt=0"},
	{Name: "exif_focal_length", Type: TypeNumber, Validators: "gt=0"},
	{Name: "exif_exposure_time", Type: TypeString},
	{Name: "photo_location_name", Type: TypeString},
	{Name: "photo_location_latitude", Type: TypeNumber, Validators: "min=-90,max=90"},
	{Name: "photo_location_longitude", Type: TypeNumber, Validators: "min=-180,max=180"},
	{Name: "photo_location_country", Type: TypeString},
	{Name: "photo_location_city", Type: TypeString},
}

// FieldCount is the size of the canonical field set.
var FieldCount = len(Fields)

// fieldIndex maps field names to their definitions for validation lookups.
var fieldIndex = func() map[string]Field {
	idx := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		idx[f.Name] = f
	}
	return idx
}()

// Lookup returns the definition for a field name.
func Lookup(name string) (Field, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

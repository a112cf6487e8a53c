package models

// Place is a geotagged record as exposed over the API.
type Place struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
	Location GeoData  `json:"location"`
}

// Fields returns the document representation persisted to the store, with
// the location stored under geoField.
func (p Place) Fields(geoField string) map[string]interface{} {
	fields := map[string]interface{}{
		"name": p.Name,
	}
	if len(p.Tags) > 0 {
		tags := make([]interface{}, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = t
		}
		fields["tags"] = tags
	}
	SetFieldAt(fields, geoField, p.Location.FieldMap())
	return fields
}

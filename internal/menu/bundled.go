package menu

import (
	"bytes"
	_ "embed"
	"encoding/json"
)

//go:embed default_menu.json
var defaultMenuJSON []byte

// Default returns the bundled fallback snapshot. It is the last tier of the
// fetch pipeline and the only one that cannot fail.
func Default() Snapshot {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(defaultMenuJSON))
	dec.UseNumber()
	_ = dec.Decode(&raw)
	return Normalize(raw)
}

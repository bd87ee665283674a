package inline

import (
	"encoding/json"

	"github.com/shortdrama-cli/shortdrama/browse"
	"github.com/shortdrama-cli/shortdrama/catalog"
)

type Entry struct {
	// Video is the catalog entry.
	Video *catalog.Video `json:"video"`
	// Series is the title of the collection the video belongs to.
	Series string `json:"series" jsonschema:"description=Collection title the video belongs to"`
	// Episodes of the series, present when requested.
	Episodes []*catalog.Video `json:"episodes,omitempty"`
}

type Output struct {
	Query   string          `json:"query,omitempty"`
	Rubric  string          `json:"rubric,omitempty"`
	Result  []*Entry        `json:"result"`
	Shelves []*browse.Shelf `json:"shelves,omitempty"`
}

func asJson(output *Output) ([]byte, error) {
	if output.Result == nil {
		output.Result = []*Entry{}
	}
	return json.Marshal(output)
}

package messaging

type ChangeTopic string

const (
	SearchUpdated ChangeTopic = "search_updated"
	TextSearch    ChangeTopic = "text_search"
	CheckFacets   ChangeTopic = "check_facets"
	FacetsChanged ChangeTopic = "facets_changed"
)

// SessionTopics are the topics carrying search session events.
var SessionTopics = []ChangeTopic{SearchUpdated, TextSearch, CheckFacets}

type RabbitConfig struct {
	Url    string
	Prefix string
}

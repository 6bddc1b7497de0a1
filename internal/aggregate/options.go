package aggregate

import (
	"github.com/tswoboda/voicedash/internal/store"
)

// Option is one selectable dropdown entry, optionally with nested
// children (regions under a country, topics under a parent category).
type Option struct {
	Value   string   `json:"value"`
	Label   string   `json:"label"`
	Options []Option `json:"options,omitempty"`
}

// FilterOptions is everything the dashboard's filter controls can offer
// for one campaign, derived from the current dataset catalogs.
type FilterOptions struct {
	Countries      []Option `json:"countries"`
	ResponseTopics []Option `json:"response_topics"`
	Ages           []Option `json:"ages"`
	AgeBuckets     []Option `json:"age_buckets"`
	Genders        []Option `json:"genders"`
	Professions    []Option `json:"professions"`

	OnlyResponsesFromCategories []Option `json:"only_responses_from_categories"`
	OnlyMultiWordPhrases        []Option `json:"only_multi_word_phrases_containing_filter_term"`
}

// The two toggle controls always offer the same pair of choices.
var (
	categoryToggleOptions = []Option{
		{Value: "true", Label: "Only show responses which match all selected response topics"},
		{Value: "false", Label: "Show all responses"},
	}
	phraseToggleOptions = []Option{
		{Value: "true", Label: "Only show multi-word phrases containing the filter term"},
		{Value: "false", Label: "Show all words and phrases"},
	}
)

// Options derives the filter dropdown contents from a dataset snapshot.
func (a *Aggregator) Options(ds *store.Dataset) FilterOptions {
	opts := FilterOptions{
		Countries:      countryOptions(ds),
		ResponseTopics: a.topicOptions(),
		Ages:           plainOptions(ds.Ages),
		AgeBuckets:     plainOptions(ds.AgeBuckets),

		OnlyResponsesFromCategories: categoryToggleOptions,
		OnlyMultiWordPhrases:        phraseToggleOptions,
	}
	if a.campaign.HasField("gender") {
		opts.Genders = plainOptions(ds.Genders)
	}
	if a.campaign.HasField("profession") {
		opts.Professions = plainOptions(ds.Professions)
	}
	return opts
}

// HistogramOptions lists the demographic dimensions the campaign's
// histogram can break down by.
func (a *Aggregator) HistogramOptions() []Option {
	opts := []Option{
		{Value: "age", Label: "Age"},
		{Value: "canonical_country", Label: "Country"},
	}
	if a.campaign.HasField("gender") {
		opts = append(opts, Option{Value: "gender", Label: "Gender"})
	}
	if a.campaign.HasField("profession") {
		opts = append(opts, Option{Value: "profession", Label: "Profession"})
	}
	return opts
}

func countryOptions(ds *store.Dataset) []Option {
	opts := make([]Option, 0, len(ds.Countries))
	for _, c := range ds.Countries {
		opt := Option{Value: c.Alpha2Code, Label: c.Name}
		for _, r := range c.Regions {
			opt.Options = append(opt.Options, Option{Value: r.Name, Label: r.Name})
		}
		opts = append(opts, opt)
	}
	return opts
}

// topicOptions groups the campaign's response topics under their parent
// categories, matching the taxonomy's configured order.
func (a *Aggregator) topicOptions() []Option {
	parents := a.tax.Parents()
	opts := make([]Option, 0, len(parents))
	for _, p := range parents {
		opt := Option{Value: p.Code, Label: p.Name}
		for _, c := range p.Categories {
			opt.Options = append(opt.Options, Option{Value: c.Code, Label: c.Description})
		}
		opts = append(opts, opt)
	}
	return opts
}

func plainOptions(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}

package domain

import "time"

// FoundArticle is a candidate discovered on a listing page, before its
// content has been extracted. Uniqueness is enforced downstream by URL.
type FoundArticle struct {
	Title  string
	URL    string
	Source string
}

// Article is the durable record produced by a veille run. Every discovered
// candidate ends up as one row: either analyzed, or annotated with the error
// that stopped its processing. Rows are keyed by URL and overwritten in place
// when the same URL is processed again.
type Article struct {
	ID              string           `json:"id"`
	URL             string           `json:"url"`
	Title           string           `json:"title"`
	Source          string           `json:"source"`
	Published       bool             `json:"published"`
	Date            *string          `json:"date"`
	Content         *string          `json:"-"`
	ScorePertinence *int             `json:"score_pertinence"`
	Analysis        *ArticleAnalysis `json:"analysis"`
	Error           *string          `json:"error"`
	CreatedTime     time.Time        `json:"created_time"`
	UpdatedTime     *time.Time       `json:"updated_time"`
}

// ArticleUpsert carries the fields a run is allowed to write. Published is
// deliberately absent: the pipeline never toggles publication.
type ArticleUpsert struct {
	URL             string
	Title           string
	Source          string
	Date            *string
	Content         *string
	ScorePertinence *int
	Analysis        *ArticleAnalysis
	Error           *string
}

// ArticleFilter narrows List queries. Nil fields are ignored.
type ArticleFilter struct {
	Published *bool
	ScoreMin  *int
}

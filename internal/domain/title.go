package domain

import "strconv"

// Fallback labels used when a quality variant comes back without audio or
// subtitle metadata.
const (
	DefaultAudioLabel    = "English AAC 5.1 (Default)"
	DefaultSubtitleLabel = "English (Default SUBRIP)"
)

// QualityVariant is one selectable stream variant of a title. The order of
// variants is meaningful: the stream token service is addressed by index.
type QualityVariant struct {
	Type       string `json:"type"`
	FileID     string `json:"fileid"`
	Size       string `json:"size"`
	Audio      string `json:"audio"`
	Subtitle   string `json:"subtitle"`
	VideoCodec string `json:"video_codec"`
	FileType   string `json:"file_type"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	ImageURL  string `json:"imageUrl"`
}

// TitleDetails is the metadata record of a single movie or show as served
// by the detail endpoint.
type TitleDetails struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	OriginalTitle string           `json:"original_title"`
	Overview      string           `json:"overview"`
	ReleaseDate   string           `json:"release_date"`
	PosterPath    string           `json:"poster_path"`
	BackdropPath  string           `json:"backdrop_path"`
	LogoPath      string           `json:"logo"`
	Trailer       string           `json:"trailer"`
	Genres        []string         `json:"genres"`
	Runtime       int              `json:"runtime"`
	VoteAverage   float64          `json:"vote_average"`
	VoteCount     int              `json:"vote_count"`
	Cast          []CastMember     `json:"cast"`
	Directors     []string         `json:"directors"`
	Studios       []string         `json:"studios"`
	Quality       []QualityVariant `json:"quality"`
	MediaType     MediaType        `json:"media_type"`
}

// Year extracts the release year, or 0 when the date is absent or malformed.
func (t TitleDetails) Year() int {
	if len(t.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(t.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

package entities

// TimestampLayout is the minute-precision layout used for feed timestamps
const TimestampLayout = "2006-01-02 15:04"

// Defaults used when a reporter leaves fields empty
const (
	AnonymousUser   = "Anonymous"
	UnknownLocation = "Unknown"
)

// AnomalyPost is a community-submitted ocean anomaly report
type AnomalyPost struct {
	User      string  `csv:"user" json:"user"`
	Timestamp string  `csv:"timestamp" json:"timestamp"`
	Location  string  `csv:"location" json:"location"`
	Lat       float64 `csv:"lat" json:"lat"`
	Lon       float64 `csv:"lon" json:"lon"`
	Message   string  `csv:"message" json:"message"`
	Tag       string  `csv:"tag" json:"tag"`
	ImagePath string  `csv:"image_path" json:"image_path,omitempty"` // empty when no image was attached
}

// HasImage reports whether the post references an image file.
// The file itself may be gone; callers check the image store before use.
func (p AnomalyPost) HasImage() bool {
	return p.ImagePath != ""
}

// Insight is a feed post together with its Harbor Helper explanation
type Insight struct {
	User      string  `csv:"user" json:"user"`
	Timestamp string  `csv:"timestamp" json:"timestamp"`
	Location  string  `csv:"location" json:"location"`
	Lat       float64 `csv:"lat" json:"lat"`
	Lon       float64 `csv:"lon" json:"lon"`
	Message   string  `csv:"message" json:"message"`
	Tag       string  `csv:"tag" json:"tag"`
	ImagePath string  `csv:"image_path" json:"image_path,omitempty"`
	Insight   string  `csv:"harbor_helper_insight" json:"harbor_helper_insight"`
}

// InsightFromPost copies a post into an insight row without an explanation
func InsightFromPost(p AnomalyPost) Insight {
	return Insight{
		User:      p.User,
		Timestamp: p.Timestamp,
		Location:  p.Location,
		Lat:       p.Lat,
		Lon:       p.Lon,
		Message:   p.Message,
		Tag:       p.Tag,
		ImagePath: p.ImagePath,
	}
}

// Post returns the feed post the insight explains
func (i Insight) Post() AnomalyPost {
	return AnomalyPost{
		User:      i.User,
		Timestamp: i.Timestamp,
		Location:  i.Location,
		Lat:       i.Lat,
		Lon:       i.Lon,
		Message:   i.Message,
		Tag:       i.Tag,
		ImagePath: i.ImagePath,
	}
}

// PostKey identifies a post across the feed and insight files
func PostKey(p AnomalyPost) string {
	return p.User + "|" + p.Timestamp + "|" + p.Location + "|" + p.Tag + "|" + p.Message
}

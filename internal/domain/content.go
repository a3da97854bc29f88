package domain

// Category identifies the content type of an item.
type Category string

// Content categories. Each carries a distinct effort multiplier in the
// reward configuration; anything else falls back to the text-post rate.
const (
	CategoryPodcast    Category = "podcast"
	CategoryLongVideo  Category = "long_video"
	CategoryShortVideo Category = "short_video"
	CategoryTextPost   Category = "text_post"
)

// ContentItem is an immutable snapshot of one piece of content for a
// single simulated day. It is created once, fed through the reward
// calculator, and discarded.
type ContentItem struct {
	Category Category

	// Engagement counters
	Views    int64
	Shares   int64
	Reports  int64
	Likes    int64
	Dislikes int64
	Comments int64

	// Externally supplied quality scores
	CreatorCredibility int // 0-500 scale
	AccuracyRating     int // 0-100
	EngagementQuality  int // 0-100

	DurationMinutes float64
}

// TotalEngagement returns the sum of all engagement actions (views excluded).
func (c *ContentItem) TotalEngagement() int64 {
	return c.Shares + c.Reports + c.Likes + c.Dislikes + c.Comments
}

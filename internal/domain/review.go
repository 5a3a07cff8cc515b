package domain

// Review represents a single diner's review of the restaurant.
//
// Review is comparable: two reviews are the same review when all four fields
// are equal. Rating is deliberately a plain int so out-of-range values can be
// represented and rejected by the admission policy.
type Review struct {
	Author    string `json:"author" yaml:"author"`
	AvatarURL string `json:"avatarUrl" yaml:"avatarUrl"`
	Content   string `json:"content" yaml:"content"`
	Rating    int    `json:"rating" yaml:"rating"`
}

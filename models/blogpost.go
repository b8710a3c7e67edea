package models

// Blogpost is a post with an unordered set of tags.
type Blogpost struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"type:varchar(80);not null"`
	Body  string `json:"body" gorm:"type:text;not null"`
	Tags  []Tag  `json:"tags,omitempty" gorm:"many2many:blogpost_tags;constraint:OnDelete:CASCADE"`
}

// TagNames returns the names of the post's tags in stored order.
func (p Blogpost) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// HasTag reports whether the post carries the tag with the given id.
func (p Blogpost) HasTag(id uint) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

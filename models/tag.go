package models

// Tag is a named label shared by any number of posts
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(80);not null;uniqueIndex:idx_tag_name"`
}

// TagChanges is the set of writes that brings the stored tags in line with a
// submitted tag list.
type TagChanges struct {
	Deletes []uint
	Updates []Tag
	Inserts []string
}

// Empty reports whether applying the changes would be a no-op.
func (c TagChanges) Empty() bool {
	return len(c.Deletes) == 0 && len(c.Updates) == 0 && len(c.Inserts) == 0
}

package domain

import "time"

// DocIndex binds exactly one category to exactly one topic designated as the
// category's documentation index. The index topic's first post is parsed into
// the materialized sidebar structure (sections and links) owned by this record.
//
// Invariant: the index topic's own category must equal CategoryID for as long
// as the record exists. When an external change would break that, the record
// is destroyed, never kept around in an invalid state.
type DocIndex struct {
	ID           int64
	CategoryID   int64
	IndexTopicID int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SidebarSection is one ordered grouping in a doc index structure. A nil Title
// marks the implicit untitled "root" section. Sections are fully regenerated on
// each refresh, never patched in place.
type SidebarSection struct {
	ID       int64
	IndexID  int64
	Title    *string
	Position int

	Links []SidebarLink
}

// SidebarLink is one navigable entry within a section. TopicID is set only
// when Href resolved to an internal topic at refresh time; external and
// unroutable links keep a nil TopicID and pass through projection unfiltered.
type SidebarLink struct {
	ID        int64
	SectionID int64
	Title     *string
	Href      string
	TopicID   *int64
	Position  int
}

// Validate checks the record's own fields. Uniqueness (both category_id and
// index_topic_id) is enforced by the schema; the topic/category match is
// checked by the caller against a loaded topic via ValidIndexTopic.
func (i *DocIndex) Validate() error {
	var errs []FieldError
	if i.CategoryID <= 0 {
		errs = append(errs, FieldError{Field: "category_id", Message: "required"})
	}
	if i.IndexTopicID <= 0 {
		errs = append(errs, FieldError{Field: "index_topic_id", Message: "required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// ValidIndexTopic reports whether a topic may serve as the documentation index
// of the given category: it must exist, belong directly to the category, not
// be a private message, and not be trashed.
func ValidIndexTopic(topic *Topic, categoryID int64) bool {
	if topic == nil {
		return false
	}
	if !topic.InCategory(categoryID) {
		return false
	}
	if topic.IsPrivateMessage() {
		return false
	}
	if topic.IsTrashed() {
		return false
	}
	return true
}

// ValidLinkTarget reports whether a resolved link target topic survives the
// read-time projection filter: it must exist, not be a PM, not be trashed, be
// visible, and belong directly to the index's category. Subcategory membership
// does not count.
func ValidLinkTarget(topic *Topic, categoryID int64) bool {
	if topic == nil {
		return false
	}
	if topic.IsPrivateMessage() {
		return false
	}
	if topic.IsTrashed() {
		return false
	}
	if !topic.Visible {
		return false
	}
	return topic.InCategory(categoryID)
}

// SidebarStructureLink is one projected sidebar entry.
type SidebarStructureLink struct {
	Text    string `json:"text"`
	Href    string `json:"href"`
	TopicID *int64 `json:"topic_id,omitempty"`
}

// SidebarStructureSection is one projected sidebar section.
type SidebarStructureSection struct {
	Title *string                `json:"text"`
	Links []SidebarStructureLink `json:"links"`
}

// BuildSidebarStructure projects the materialized sections into the read-time
// sidebar structure. Stored links are not pruned eagerly when their target's
// visibility changes; this filter is what catches stale targets between
// refreshes. Links with a resolved target are kept only while the target
// passes ValidLinkTarget, and their href/text track the live topic. Links
// without a resolved target pass through as stored. Sections left with no
// surviving links are omitted, and a structure with no sections at all
// projects to nil.
func BuildSidebarStructure(index *DocIndex, sections []SidebarSection, topicsByID map[int64]*Topic) []SidebarStructureSection {
	var result []SidebarStructureSection

	for _, section := range sections {
		var links []SidebarStructureLink

		for _, link := range section.Links {
			if link.TopicID == nil {
				links = append(links, SidebarStructureLink{
					Text: linkText(link, nil),
					Href: link.Href,
				})
				continue
			}

			topic := topicsByID[*link.TopicID]
			if !ValidLinkTarget(topic, index.CategoryID) {
				continue
			}

			links = append(links, SidebarStructureLink{
				Text:    linkText(link, topic),
				Href:    topic.RelativeURL(),
				TopicID: &topic.ID,
			})
		}

		if len(links) == 0 {
			continue
		}

		result = append(result, SidebarStructureSection{
			Title: section.Title,
			Links: links,
		})
	}

	return result
}

// ValidSidebarTopicIDs returns the distinct topic ids of links whose targets
// survive the projection filter. Used by reports to diff the materialized
// structure against actual category membership.
func ValidSidebarTopicIDs(index *DocIndex, sections []SidebarSection, topicsByID map[int64]*Topic) []int64 {
	seen := make(map[int64]bool)
	var ids []int64

	for _, section := range sections {
		for _, link := range section.Links {
			if link.TopicID == nil {
				continue
			}
			topic := topicsByID[*link.TopicID]
			if !ValidLinkTarget(topic, index.CategoryID) {
				continue
			}
			if !seen[topic.ID] {
				seen[topic.ID] = true
				ids = append(ids, topic.ID)
			}
		}
	}

	return ids
}

// LinkTopicIDs returns the distinct resolved topic ids referenced by the
// stored sections, in first-appearance order.
func LinkTopicIDs(sections []SidebarSection) []int64 {
	seen := make(map[int64]bool)
	var ids []int64

	for _, section := range sections {
		for _, link := range section.Links {
			if link.TopicID == nil || seen[*link.TopicID] {
				continue
			}
			seen[*link.TopicID] = true
			ids = append(ids, *link.TopicID)
		}
	}

	return ids
}

func linkText(link SidebarLink, topic *Topic) string {
	if link.Title != nil && *link.Title != "" {
		return *link.Title
	}
	if topic != nil {
		return topic.Title
	}
	return link.Href
}

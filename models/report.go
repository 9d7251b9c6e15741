package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is the storage vocabulary for report categories. The UI-facing
// label vocabulary lives in CategoryLabel; the two are joined by a single
// total mapping and must never be compared ad hoc.
type Category string

// Storage category values
const (
	CategorySafety         Category = "safety"
	CategoryInfrastructure Category = "infrastructure"
	CategoryEnvironmental  Category = "environmental"
	CategoryTraffic        Category = "traffic"
	CategoryOther          Category = "other"
)

// CategoryLabel is the UI-facing label vocabulary
type CategoryLabel string

// UI category labels
const (
	LabelSafetyIssue    CategoryLabel = "Safety Issue"
	LabelInfrastructure CategoryLabel = "Infrastructure"
	LabelEnvironmental  CategoryLabel = "Environmental"
	LabelTraffic        CategoryLabel = "Traffic"
	LabelOther          CategoryLabel = "Other"
)

var labelToCategory = map[CategoryLabel]Category{
	LabelSafetyIssue:    CategorySafety,
	LabelInfrastructure: CategoryInfrastructure,
	LabelEnvironmental:  CategoryEnvironmental,
	LabelTraffic:        CategoryTraffic,
	LabelOther:          CategoryOther,
}

var categoryToLabel = map[Category]CategoryLabel{
	CategorySafety:         LabelSafetyIssue,
	CategoryInfrastructure: LabelInfrastructure,
	CategoryEnvironmental:  LabelEnvironmental,
	CategoryTraffic:        LabelTraffic,
	CategoryOther:          LabelOther,
}

// CategoryFromLabel maps a UI label to its storage category. Unknown labels
// resolve to CategoryOther, never an error.
func CategoryFromLabel(label string) Category {
	if c, ok := labelToCategory[CategoryLabel(label)]; ok {
		return c
	}
	return CategoryOther
}

// Label returns the UI label for a storage category. Unknown categories
// resolve to LabelOther.
func (c Category) Label() CategoryLabel {
	if l, ok := categoryToLabel[c]; ok {
		return l
	}
	return LabelOther
}

// Priority of a report
type Priority string

// Priority values, lowest to highest
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ColorKey returns the marker color key for a priority
func (p Priority) ColorKey() string {
	switch p {
	case PriorityLow:
		return "green"
	case PriorityHigh:
		return "orange"
	case PriorityCritical:
		return "red"
	default:
		return "yellow"
	}
}

// Status of a report. Transitions are moderator-driven and not validated here.
type Status string

// Status values
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Location holds either a free-text place name, resolved coordinates, or both.
// A report without resolved coordinates is never rendered as a marker.
type Location struct {
	Name         string   `bson:"name,omitempty" json:"name,omitempty"`
	Latitude     *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude    *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	ResolvedName string   `bson:"resolvedName,omitempty" json:"resolvedName,omitempty"`
	City         string   `bson:"city,omitempty" json:"city,omitempty"`
	Region       string   `bson:"region,omitempty" json:"region,omitempty"`
}

// Resolved reports whether the location carries usable coordinates
func (l Location) Resolved() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Report represents a citizen-submitted civic issue report
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Category    Category           `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Location    Location           `bson:"location" json:"location"`
	PhotoURL    string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Status      Status             `bson:"status" json:"status"`
	Upvotes     int                `bson:"upvotes" json:"upvotes"`
	Downvotes   int                `bson:"downvotes" json:"downvotes"`
	Deleted     bool               `bson:"deleted" json:"-"`
	CreatedAt   primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt   primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
}

// ReportSubmission is the shape a report arrives in from the submission form.
// Category carries the UI label vocabulary and coordinates are optional.
type ReportSubmission struct {
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	LocationName string   `json:"locationName,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	PhotoURL     string   `json:"photoUrl,omitempty"`
	Priority     string   `json:"priority,omitempty"`
}

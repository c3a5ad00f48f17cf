// Package domain defines the persistence models for guides, blog posts,
// categories, and subscriptions. These types are mapped with GORM and form
// the core data layer of the VerbShift content platform.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Content type discriminators used across services and the generation
// pipeline. Guides are strictly how-to documents; blogs are tone-driven
// opinion pieces.
const (
	ContentTypeGuide = "guide"
	ContentTypeBlog  = "blog"
)

// Guide represents a published or draft how-to article. Guides are the
// primary content unit of the site and may be authored by a human, generated
// through the AI pipeline, or created by the automated guide bot.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Title / Slug: display title and its URL-safe form; slug is unique.
//   - Excerpt: short preview text shown on listing pages.
//   - Content: full markdown body.
//   - CoverImage: optional cover image URL.
//   - Published / Featured: visibility flags.
//   - ReadTime: estimated reading time in minutes.
//   - AuthorID: identifier of the owning user; indexed for monthly usage counts.
//   - CategoryID: foreign key to the owning category.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Guide struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Title      string         `json:"title"       gorm:"type:varchar(255);not null;index"`
	Slug       string         `json:"slug"        gorm:"type:varchar(255);not null;uniqueIndex"`
	Excerpt    string         `json:"excerpt"     gorm:"type:text"`
	Content    string         `json:"content"     gorm:"type:text;not null"`
	CoverImage string         `json:"cover_image,omitempty" gorm:"type:varchar(512)"`
	Published  bool           `json:"published"   gorm:"not null;default:false"`
	Featured   bool           `json:"featured"    gorm:"not null;default:false"`
	ReadTime   int            `json:"read_time"   gorm:"not null;default:5"`
	AuthorID   string         `json:"author_id"   gorm:"type:varchar(64);not null;index:idx_guide_author,priority:1"`
	CategoryID string         `json:"category_id" gorm:"type:char(36);not null;index"`
	CreatedAt  time.Time      `json:"created_at"  gorm:"index:idx_guide_author,priority:2"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Category is the owning taxonomy entry. Deleting a category with
	// guides attached is rejected at the DB level.
	Category Category `json:"category" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Guide.
func (Guide) TableName() string { return "guides" }

// Blog represents a blog post. Blogs share the Guide column layout but live
// in their own table and never carry a references section.
type Blog struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Title      string         `json:"title"       gorm:"type:varchar(255);not null;index"`
	Slug       string         `json:"slug"        gorm:"type:varchar(255);not null;uniqueIndex"`
	Excerpt    string         `json:"excerpt"     gorm:"type:text"`
	Content    string         `json:"content"     gorm:"type:text;not null"`
	CoverImage string         `json:"cover_image,omitempty" gorm:"type:varchar(512)"`
	Published  bool           `json:"published"   gorm:"not null;default:false"`
	Featured   bool           `json:"featured"    gorm:"not null;default:false"`
	ReadTime   int            `json:"read_time"   gorm:"not null;default:5"`
	AuthorID   string         `json:"author_id"   gorm:"type:varchar(64);not null;index:idx_blog_author,priority:1"`
	CategoryID string         `json:"category_id" gorm:"type:char(36);not null;index"`
	CreatedAt  time.Time      `json:"created_at"  gorm:"index:idx_blog_author,priority:2"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	Category Category `json:"category" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Blog.
func (Blog) TableName() string { return "blogs" }

// Category is a taxonomy entry that groups guides and blogs. Categories are
// seeded at startup and rarely change afterwards.
type Category struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"        gorm:"type:varchar(128);not null;uniqueIndex"`
	Slug        string         `json:"slug"        gorm:"type:varchar(128);not null;uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	Color       string         `json:"color"       gorm:"type:varchar(16)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Subscription records the billing tier of a user. Absence of a row means
// the user is on the free tier; the quota tracker relies on that convention
// instead of requiring a row per user.
//
// Tier holds one of "FREE", "BASIC", "PREMIUM" (see services.TierPolicy).
type Subscription struct {
	ID        string         `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Tier      string         `json:"tier"    gorm:"type:varchar(16);not null;check:tier IN ('FREE','BASIC','PREMIUM')"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"       gorm:"index"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

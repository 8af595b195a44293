// Package venue holds the per-venue formatting rules the checks are
// parameterized by. Rules are plain data so a venue can be swapped without
// touching checker logic: profiles load from YAML, and Default returns the
// built-in A4 profile.
package venue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarginOffsets are the four margin-band widths, measured inward from each
// page edge in points. They are asymmetric on purpose: running headers and
// page numbers legitimately occupy parts of the nominal margin.
type MarginOffsets struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// Profile is the complete rule set for one publication venue.
type Profile struct {
	Name string `yaml:"name"`

	// Required page format in points and the tolerance band around it.
	// Dimension deltas within the tolerance are treated as numeric noise.
	// FormatName is the human label used in size messages ("A4", "US Letter").
	FormatName    string  `yaml:"format_name"`
	PageWidth     float64 `yaml:"page_width"`
	PageHeight    float64 `yaml:"page_height"`
	SizeTolerance float64 `yaml:"size_tolerance"`

	Margins MarginOffsets `yaml:"margins"`

	// BackgroundColor is the expected blank-page pixel intensity used by the
	// rendered-pixel margin confirmation.
	BackgroundColor uint8 `yaml:"background_color"`

	// FontAllowList holds acceptable typeface name fragments, matched by
	// substring to tolerate renderer-specific suffixes (e.g. subset tags).
	FontAllowList []string `yaml:"font_allow_list"`
	// MinFontShare is the minimum character share the dominant font must
	// reach before its identity is judged at all.
	MinFontShare float64 `yaml:"min_font_share"`

	// PageQuotas maps a paper-type label to the maximum number of content
	// pages allowed before the bibliography. A missing label or a quota of
	// zero or less disables the page-limit check for that type.
	PageQuotas map[string]int `yaml:"page_quotas"`

	// ReferenceMarker is the literal a bibliography-opening line starts with.
	ReferenceMarker string `yaml:"reference_marker"`

	// Bibliography heuristics.
	MinDOILinks   int `yaml:"min_doi_links"`
	MinTotalLinks int `yaml:"min_total_links"`
	MaxArxivUses  int `yaml:"max_arxiv_uses"`
}

// Default returns the built-in profile: A4 pages, a Times-family typeface,
// and the short/long page quotas used by the default venue rules. The numeric
// cutoffs are tunables inferred from observed boundary behavior, not mandated
// constants; override them per venue via a YAML profile.
func Default() Profile {
	return Profile{
		Name:          "default",
		FormatName:    "A4",
		PageWidth:     595,
		PageHeight:    842,
		SizeTolerance: 3,
		Margins: MarginOffsets{
			Left:   2,
			Right:  4.5,
			Top:    1,
			Bottom: 1,
		},
		BackgroundColor: 255,
		FontAllowList: []string{
			"TimesNewRoman",
			"Times New Roman",
			"Times-Roman",
			"NimbusRomNo9L",
			"NimbusRoman",
			"TeXGyreTermes",
			"STIXTwoText",
		},
		MinFontShare: 0.35,
		PageQuotas: map[string]int{
			"short": 5,
			"long":  9,
			"other": 0,
		},
		ReferenceMarker: "References",
		MinDOILinks:     3,
		MinTotalLinks:   4,
		MaxArxivUses:    10,
	}
}

// Load reads a profile from a YAML file. Fields absent from the file keep the
// Default values, so partial profiles only override what they name.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read venue profile: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse venue profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("venue profile %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects profiles that cannot drive the checks.
func (p Profile) Validate() error {
	if p.PageWidth <= 0 || p.PageHeight <= 0 {
		return fmt.Errorf("page format %gx%g is not positive", p.PageWidth, p.PageHeight)
	}
	if p.SizeTolerance < 0 {
		return fmt.Errorf("size tolerance %g is negative", p.SizeTolerance)
	}
	if p.MinFontShare < 0 || p.MinFontShare > 1 {
		return fmt.Errorf("min font share %g outside [0, 1]", p.MinFontShare)
	}
	if p.ReferenceMarker == "" {
		return fmt.Errorf("reference marker is empty")
	}
	return nil
}

// Quota returns the page quota for a paper-type label. ok is false when the
// label is unknown or the quota disables the check.
func (p Profile) Quota(paperType string) (int, bool) {
	q, found := p.PageQuotas[paperType]
	if !found || q <= 0 {
		return 0, false
	}
	return q, true
}

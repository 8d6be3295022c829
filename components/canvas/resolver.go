package canvas

import "math"

// DefaultPreviewWidth is used to preview an unbounded tier that has no smaller tier
// and no maxScreenWidth to derive a width from.
const DefaultPreviewWidth = 1920

// unboundedPreviewFactor scales the next-smaller breakpoint when previewing the
// unbounded tier.
const unboundedPreviewFactor = 1.5

// PreviewSize is a concrete pixel size used to preview a tier.
type PreviewSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResolveActive returns the preset applicable to a viewport width. Presets are walked
// from the smallest breakpoint upward and the first one whose breakpoint is at least
// widthPx wins; past every finite tier the unbounded preset applies. A single preset
// is always active. It returns false only when presets is empty.
func ResolveActive(widthPx int, presets []ScreenPreset) (ScreenPreset, bool) {
	switch len(presets) {
	case 0:
		return ScreenPreset{}, false
	case 1:
		return presets[0], true
	}
	ascending := SortPresets(presets, true)
	for _, p := range ascending {
		if p.Breakpoint >= widthPx {
			return p, true
		}
	}
	for _, p := range ascending {
		if p.Unbounded() {
			return p, true
		}
	}
	return ascending[len(ascending)-1], true
}

// PreviewSizeFor computes the preview size of the preset with the given id. A finite
// tier previews at its breakpoint; the unbounded tier previews at 1.5x the next smaller
// breakpoint since it cannot be rendered literally. Heights follow a 16:9 ratio.
func PreviewSizeFor(presetID string, presets []ScreenPreset, maxScreenWidth int) (PreviewSize, bool) {
	descending := SortPresets(presets, false)
	for idx, p := range descending {
		if p.ID != presetID {
			continue
		}
		if !p.Unbounded() {
			return sizeForWidth(p.Breakpoint), true
		}
		if idx+1 < len(descending) {
			next := float64(descending[idx+1].Breakpoint) * unboundedPreviewFactor
			return sizeForWidth(int(math.Round(next))), true
		}
		if maxScreenWidth > 0 {
			return sizeForWidth(maxScreenWidth), true
		}
		return sizeForWidth(DefaultPreviewWidth), true
	}
	return PreviewSize{}, false
}

// MatchPreview returns the preset whose preview size equals a manually entered size.
// It returns false when the size is custom.
func MatchPreview(size PreviewSize, presets []ScreenPreset, maxScreenWidth int) (ScreenPreset, bool) {
	for _, p := range presets {
		candidate, ok := PreviewSizeFor(p.ID, presets, maxScreenWidth)
		if ok && candidate == size {
			return p, true
		}
	}
	return ScreenPreset{}, false
}

// InitialPreviewPreset picks the preset previewed right after a template is loaded:
// the largest finite tier, or the only tier.
func InitialPreviewPreset(presets []ScreenPreset) (ScreenPreset, bool) {
	descending := SortPresets(presets, false)
	for _, p := range descending {
		if !p.Unbounded() {
			return p, true
		}
	}
	if len(descending) > 0 {
		return descending[0], true
	}
	return ScreenPreset{}, false
}

// FitZoom returns the zoom factor that fits a preview into its container with a 5%
// margin, capped at 1 and rounded to two decimals.
func FitZoom(containerWidth, previewWidth int) float64 {
	if containerWidth <= 0 || previewWidth <= 0 {
		return 1
	}
	zoom := math.Round(0.95*float64(containerWidth)/float64(previewWidth)*100) / 100
	if zoom > 1 {
		return 1
	}
	return zoom
}

func sizeForWidth(width int) PreviewSize {
	return PreviewSize{
		Width:  width,
		Height: int(math.Round(float64(width) / 16 * 9)),
	}
}

package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictInvalidHour     ConflictType = "invalid_hour"
	ConflictInvalidRating   ConflictType = "invalid_rating"
	ConflictDuplicateSlot   ConflictType = "duplicate_slot"
	ConflictFutureRecord    ConflictType = "future_record"
	ConflictInvalidSettings ConflictType = "invalid_settings"

	ConflictMissingPartnerID     ConflictType = "missing_partner_id"
	ConflictDuplicatePartnerID   ConflictType = "duplicate_partner_id"
	ConflictUnknownPlacementType ConflictType = "unknown_placement_type"
	ConflictUnknownVisibility    ConflictType = "unknown_visibility"
	ConflictInvalidHourScope     ConflictType = "invalid_hour_scope"
	ConflictMissingCoupon        ConflictType = "missing_coupon_payload"
)

// Conflict represents a detected problem in stored records or configuration
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Hour        int      // -1 when not tied to an hour
	Items       []string // partner IDs or setting names involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks check-ins, settings and the partner catalog
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateRecords checks decoded check-ins. now, when non-zero, flags records
// for hours that have not started yet.
func (v *Validator) ValidateRecords(records []models.CheckInRecord, now time.Time) ValidationResult {
	var result ValidationResult
	seen := make(map[models.SlotKey]int)

	for _, r := range records {
		if !utils.ValidateDate(r.Date) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("check-in has invalid date %q", r.Date),
				Date:        r.Date,
				Hour:        r.Hour,
			})
		}
		if r.Hour < 0 || r.Hour >= constants.HoursPerDay {
			result.add(Conflict{
				Type:        ConflictInvalidHour,
				Description: fmt.Sprintf("check-in on %s has hour %d outside 0-23", r.Date, r.Hour),
				Date:        r.Date,
				Hour:        r.Hour,
			})
		}
		if r.IntensityRating != nil && (*r.IntensityRating < constants.MinRating || *r.IntensityRating > constants.MaxRating) {
			result.add(Conflict{
				Type:        ConflictInvalidRating,
				Description: fmt.Sprintf("loss on %s at %s has rating %d outside 1-5", r.Date, utils.FormatHour(r.Hour), *r.IntensityRating),
				Date:        r.Date,
				Hour:        r.Hour,
			})
		}
		if !now.IsZero() && utils.ValidateDate(r.Date) && utils.IsFutureHour(r.Date, r.Hour, now) {
			result.add(Conflict{
				Type:        ConflictFutureRecord,
				Description: fmt.Sprintf("check-in on %s at %s is for an hour that has not started", r.Date, utils.FormatHour(r.Hour)),
				Date:        r.Date,
				Hour:        r.Hour,
			})
		}
		seen[r.Key()]++
	}

	for key, count := range seen {
		if count > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateSlot,
				Description: fmt.Sprintf("%d check-ins stored for %s at %s (last one wins)", count, key.Date, utils.FormatHour(key.Hour)),
				Date:        key.Date,
				Hour:        key.Hour,
			})
		}
	}

	return result
}

// ValidateSettings checks user-editable settings before they are saved.
func (v *Validator) ValidateSettings(s models.Settings) ValidationResult {
	var result ValidationResult
	bad := func(name, format string, args ...any) {
		result.add(Conflict{
			Type:        ConflictInvalidSettings,
			Description: fmt.Sprintf(format, args...),
			Hour:        -1,
			Items:       []string{name},
		})
	}

	if !utils.ValidateTimezone(s.Timezone) {
		bad(constants.SettingTimezone, "unknown timezone %q", s.Timezone)
	}
	if s.WakingStart < 0 || s.WakingStart > 23 {
		bad(constants.SettingWakingStart, "waking_start %d is outside 0-23", s.WakingStart)
	}
	if s.WakingEnd < s.WakingStart || s.WakingEnd > 23 {
		bad(constants.SettingWakingEnd, "waking_end %d must be between waking_start and 23", s.WakingEnd)
	}
	if s.BeastPeriodMin < 1 || s.BeastPeriodMin > 24*60 {
		bad(constants.SettingBeastPeriodMin, "beast_period_min %d must be between 1 and 1440", s.BeastPeriodMin)
	}
	if s.BeastAnchor != constants.BeastAnchorSubmit && s.BeastAnchor != constants.BeastAnchorClock {
		bad(constants.SettingBeastAnchor, "beast_anchor must be %q or %q", constants.BeastAnchorSubmit, constants.BeastAnchorClock)
	}
	return result
}

// ValidateCatalog checks partner entries and returns the usable ones in their
// original order. The first entry with a given partner_id wins.
func (v *Validator) ValidateCatalog(partners []models.Partner) ([]models.Partner, ValidationResult) {
	var result ValidationResult
	valid := make([]models.Partner, 0, len(partners))
	ids := make(map[string]bool)

	for i, p := range partners {
		reject := func(t ConflictType, format string, args ...any) {
			result.add(Conflict{
				Type:        t,
				Description: fmt.Sprintf("partner #%d (%s): ", i+1, p.PartnerID) + fmt.Sprintf(format, args...),
				Hour:        -1,
				Items:       []string{p.PartnerID},
			})
		}

		switch {
		case strings.TrimSpace(p.PartnerID) == "":
			reject(ConflictMissingPartnerID, "partner_id is required")
		case ids[p.PartnerID]:
			reject(ConflictDuplicatePartnerID, "duplicate partner_id")
		case p.PlacementType != models.PlacementHour && p.PlacementType != models.PlacementDay && p.PlacementType != models.PlacementCoupon:
			reject(ConflictUnknownPlacementType, "unknown placement_type %q", p.PlacementType)
		case !knownVisibility(p.TierVisibility):
			reject(ConflictUnknownVisibility, "unknown tier_visibility %q", p.TierVisibility)
		case p.HourScope != nil && (p.HourScope.Start < 0 || p.HourScope.End > 23 || p.HourScope.Start > p.HourScope.End):
			reject(ConflictInvalidHourScope, "hour_scope %d-%d is not a range within 0-23", p.HourScope.Start, p.HourScope.End)
		case p.PlacementType == models.PlacementCoupon && p.CouponPayload == nil:
			reject(ConflictMissingCoupon, "coupon placement without coupon_payload")
		default:
			ids[p.PartnerID] = true
			valid = append(valid, p)
		}
	}
	return valid, result
}

func knownVisibility(v models.TierVisibility) bool {
	_, ok := v.MinRank()
	return ok
}

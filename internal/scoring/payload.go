package scoring

import "github.com/kiruba11k/lead-scoring-llm/internal/linkedin"

// BuildPayload merges the extracted profile, the computed activity signal,
// the post collection the signal was computed from, and the user-supplied
// company fields into one normalized record. Pure transformation: a nil
// profile or missing sections default to empty values, never panic.
func BuildPayload(profile *linkedin.ProfileRecord, activity linkedin.ActivitySignal, posts []linkedin.PostRecord, company CompanyInfo) ScoringPayload {
	prospect := Prospect{
		ActivityDays: activity,
		RecentPosts:  posts,
	}
	if prospect.RecentPosts == nil {
		prospect.RecentPosts = []linkedin.PostRecord{}
	}

	if profile != nil {
		prospect.Name = profile.BasicInfo.FullName
		prospect.Headline = profile.BasicInfo.Headline
		prospect.Location = profile.BasicInfo.Location.Full
		prospect.CurrentRole, prospect.CurrentCompany = currentPosition(profile)
	}

	return ScoringPayload{
		Prospect:      prospect,
		CompanyManual: company,
	}
}

// currentPosition scans the experience entries in order for the first one
// flagged current with a non-empty title. Without one, the headline stands
// in for the role and the provider's current-company field (when present)
// for the company, so a role is always available when a headline exists.
func currentPosition(profile *linkedin.ProfileRecord) (role, company string) {
	for _, entry := range profile.Experience {
		if entry.IsCurrent && entry.Title != "" {
			return entry.Title, entry.Company
		}
	}
	return profile.BasicInfo.Headline, profile.BasicInfo.CurrentCompany
}

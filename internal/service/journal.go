package service

import (
	"context"

	"github.com/scieloorg/kernel-sub000/internal/domain"
)

// CreateJournal creates a brand new, empty journal.
// domain.ErrAlreadyExists if id is already registered.
func (s *Service) CreateJournal(ctx context.Context, id string) error {
	j := domain.NewJournal(id, s.now)
	if err := s.sess.Journals.Add(ctx, j.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalCreated, id)
	return nil
}

// FetchJournal returns the journal's current values.
func (s *Service) FetchJournal(ctx context.Context, id string) (domain.JournalData, error) {
	m, err := s.sess.Journals.Fetch(ctx, id)
	if err != nil {
		return domain.JournalData{}, err
	}
	return domain.JournalFromManifest(m, s.now).Data(), nil
}

func (s *Service) withJournal(ctx context.Context, id string, mutate func(*domain.Journal) error) error {
	m, err := s.sess.Journals.Fetch(ctx, id)
	if err != nil {
		return err
	}
	j := domain.JournalFromManifest(m, s.now)
	if err := mutate(j); err != nil {
		return err
	}
	return s.sess.Journals.Update(ctx, id, j.Manifest())
}

// JournalMetadata is the set of journal fields UpdateJournalMetadata may
// apply in one call; nil fields are left unchanged.
type JournalMetadata struct {
	Mission                   interface{}
	Title                     *string
	TitleISO                  *string
	ShortTitle                *string
	Acronym                   *string
	ScieloISSN                *string
	PrintISSN                 *string
	ElectronicISSN            *string
	Status                    map[string]interface{}
	SubjectAreas              []string
	Sponsors                  []map[string]interface{}
	Metrics                   map[string]interface{}
	SubjectCategories         []string
	InstitutionResponsibleFor []map[string]interface{}
	OnlineSubmissionURL       *string
	NextJournal               map[string]interface{}
	PreviousJournal           map[string]interface{}
	Contact                   map[string]interface{}
}

// UpdateJournalMetadata applies the given fields of meta.
// domain.ErrInvalidSubjectArea if SubjectAreas includes an area outside
// the closed vocabulary.
func (s *Service) UpdateJournalMetadata(ctx context.Context, id string, meta JournalMetadata) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		if meta.Mission != nil {
			j.SetMission(meta.Mission)
		}
		if meta.Title != nil {
			j.SetTitle(*meta.Title)
		}
		if meta.TitleISO != nil {
			j.SetTitleISO(*meta.TitleISO)
		}
		if meta.ShortTitle != nil {
			j.SetShortTitle(*meta.ShortTitle)
		}
		if meta.Acronym != nil {
			j.SetAcronym(*meta.Acronym)
		}
		if meta.ScieloISSN != nil {
			j.SetScieloISSN(*meta.ScieloISSN)
		}
		if meta.PrintISSN != nil {
			j.SetPrintISSN(*meta.PrintISSN)
		}
		if meta.ElectronicISSN != nil {
			j.SetElectronicISSN(*meta.ElectronicISSN)
		}
		if meta.Status != nil {
			j.SetStatus(meta.Status)
		}
		if meta.SubjectAreas != nil {
			if err := j.SetSubjectAreas(meta.SubjectAreas); err != nil {
				return err
			}
		}
		if meta.Sponsors != nil {
			j.SetSponsors(meta.Sponsors)
		}
		if meta.Metrics != nil {
			j.SetMetrics(meta.Metrics)
		}
		if meta.SubjectCategories != nil {
			j.SetSubjectCategories(meta.SubjectCategories)
		}
		if meta.InstitutionResponsibleFor != nil {
			j.SetInstitutionResponsibleFor(meta.InstitutionResponsibleFor)
		}
		if meta.OnlineSubmissionURL != nil {
			j.SetOnlineSubmissionURL(*meta.OnlineSubmissionURL)
		}
		if meta.NextJournal != nil {
			j.SetNextJournal(meta.NextJournal)
		}
		if meta.PreviousJournal != nil {
			j.SetPreviousJournal(meta.PreviousJournal)
		}
		if meta.Contact != nil {
			j.SetContact(meta.Contact)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalMetadataUpdated, id)
	return nil
}

// AddIssueToJournal appends bundleID to the journal's issue list.
func (s *Service) AddIssueToJournal(ctx context.Context, id, bundleID string) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		return j.AddIssue(bundleID)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalIssueAdded, id)
	return nil
}

// InsertIssueToJournal inserts bundleID at index, with
// Python-list.insert clamp semantics for out-of-range indices.
func (s *Service) InsertIssueToJournal(ctx context.Context, id string, index int, bundleID string) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		return j.InsertIssue(index, bundleID)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalIssueInserted, id)
	return nil
}

// UpdateIssuesInJournal replaces the entire issue list: every current
// issue is removed, then each of bundleIDs is added in order.
func (s *Service) UpdateIssuesInJournal(ctx context.Context, id string, bundleIDs []string) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		for _, bundleID := range j.Issues() {
			if err := j.RemoveIssue(bundleID); err != nil {
				return err
			}
		}
		for _, bundleID := range bundleIDs {
			if err := j.AddIssue(bundleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalIssuesUpdated, id)
	return nil
}

// RemoveIssueFromJournal removes bundleID from the journal's issue list.
// domain.ErrDoesNotExist if it isn't present.
func (s *Service) RemoveIssueFromJournal(ctx context.Context, id, bundleID string) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		return j.RemoveIssue(bundleID)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalIssueRemoved, id)
	return nil
}

// SetAheadOfPrintBundleToJournal sets the bundle holding the journal's
// ahead-of-print documents.
func (s *Service) SetAheadOfPrintBundleToJournal(ctx context.Context, id, bundleID string) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		j.SetAheadOfPrintBundle(bundleID)
		return nil
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalAheadOfPrintBundleSet, id)
	return nil
}

// RemoveAheadOfPrintBundleFromJournal clears the ahead-of-print bundle.
// domain.ErrDoesNotExist if none was set.
func (s *Service) RemoveAheadOfPrintBundleFromJournal(ctx context.Context, id string) error {
	err := s.withJournal(ctx, id, func(j *domain.Journal) error {
		return j.RemoveAheadOfPrintBundle()
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, JournalAheadOfPrintBundleRemoved, id)
	return nil
}

package domain

import (
	"github.com/scieloorg/kernel-sub000/internal/manifest"
)

// SubjectAreas is the closed vocabulary a Journal's subject_areas must be
// drawn from.
var SubjectAreas = []string{
	"Agricultural Sciences",
	"Applied Social Sciences",
	"Biological Sciences",
	"Engineering",
	"Exact and Earth Sciences",
	"Health Sciences",
	"Human Sciences",
	"Linguistics, Letters and Arts",
}

func isSubjectArea(area string) bool {
	for _, a := range SubjectAreas {
		if a == area {
			return true
		}
	}
	return false
}

// JournalData is a Journal collapsed to its current values.
type JournalData struct {
	ID                        string
	Created                   string
	Updated                   string
	Issues                    []string
	Mission                   interface{}
	Title                     string
	TitleISO                  string
	ShortTitle                string
	Acronym                   string
	ScieloISSN                string
	PrintISSN                 string
	ElectronicISSN            string
	Status                    map[string]interface{}
	SubjectAreas              []string
	Sponsors                  []map[string]interface{}
	Metrics                   map[string]interface{}
	SubjectCategories         []string
	InstitutionResponsibleFor []map[string]interface{}
	OnlineSubmissionURL       string
	NextJournal               map[string]interface{}
	PreviousJournal           map[string]interface{}
	Contact                   map[string]interface{}
	Provisional               string
	AheadOfPrintBundle        string
}

// Journal is the aggregate wrapping manifest.BundleManifest with the
// metadata accessors of §4.3.
type Journal struct {
	manifest manifest.BundleManifest
	now      manifest.NowFunc
}

// NewJournal starts a brand new, empty journal.
func NewJournal(id string, now manifest.NowFunc) *Journal {
	if now == nil {
		now = manifest.UTCNow
	}
	return &Journal{manifest: manifest.NewBundle(id, now), now: now}
}

// JournalFromManifest wraps a manifest fetched from storage.
func JournalFromManifest(m manifest.BundleManifest, now manifest.NowFunc) *Journal {
	if now == nil {
		now = manifest.UTCNow
	}
	return &Journal{manifest: m, now: now}
}

func (j *Journal) ID() string { return j.manifest.ID }

func (j *Journal) Manifest() manifest.BundleManifest { return j.manifest.Clone() }

func (j *Journal) Created() string { return j.manifest.Created }

func (j *Journal) Updated() string { return j.manifest.Updated }

func (j *Journal) metadataString(name string) string {
	v, _ := manifest.GetMetadata(j.manifest, name).(string)
	return v
}

func (j *Journal) setMetadata(name string, value interface{}) {
	j.manifest = manifest.SetMetadata(j.manifest, name, value, j.now)
}

func (j *Journal) Mission() interface{} { return manifest.GetMetadata(j.manifest, "mission") }
func (j *Journal) SetMission(v interface{}) { j.setMetadata("mission", v) }

func (j *Journal) Title() string         { return j.metadataString("title") }
func (j *Journal) SetTitle(v string)     { j.setMetadata("title", v) }
func (j *Journal) TitleISO() string      { return j.metadataString("title_iso") }
func (j *Journal) SetTitleISO(v string)  { j.setMetadata("title_iso", v) }
func (j *Journal) ShortTitle() string    { return j.metadataString("short_title") }
func (j *Journal) SetShortTitle(v string) { j.setMetadata("short_title", v) }
func (j *Journal) Acronym() string       { return j.metadataString("acronym") }
func (j *Journal) SetAcronym(v string)   { j.setMetadata("acronym", v) }
func (j *Journal) ScieloISSN() string    { return j.metadataString("scielo_issn") }
func (j *Journal) SetScieloISSN(v string) { j.setMetadata("scielo_issn", v) }
func (j *Journal) PrintISSN() string     { return j.metadataString("print_issn") }
func (j *Journal) SetPrintISSN(v string) { j.setMetadata("print_issn", v) }
func (j *Journal) ElectronicISSN() string { return j.metadataString("electronic_issn") }
func (j *Journal) SetElectronicISSN(v string) { j.setMetadata("electronic_issn", v) }

func (j *Journal) Status() map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "status").(map[string]interface{})
	return v
}
func (j *Journal) SetStatus(v map[string]interface{}) { j.setMetadata("status", v) }

// StatusHistory returns the full append-only history of status values.
func (j *Journal) StatusHistory() []manifest.MetadataEntry {
	return manifest.GetMetadataAll(j.manifest, "status")
}

func (j *Journal) SubjectAreas() []string {
	v, _ := manifest.GetMetadata(j.manifest, "subject_areas").([]string)
	return v
}

// SetSubjectAreas validates every area against the closed vocabulary before
// recording it.
func (j *Journal) SetSubjectAreas(areas []string) error {
	for _, a := range areas {
		if !isSubjectArea(a) {
			return ErrInvalidSubjectArea
		}
	}
	j.setMetadata("subject_areas", areas)
	return nil
}

func (j *Journal) Sponsors() []map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "sponsors").([]map[string]interface{})
	return v
}
func (j *Journal) SetSponsors(v []map[string]interface{}) { j.setMetadata("sponsors", v) }

func (j *Journal) Metrics() map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "metrics").(map[string]interface{})
	return v
}
func (j *Journal) SetMetrics(v map[string]interface{}) { j.setMetadata("metrics", v) }

func (j *Journal) SubjectCategories() []string {
	v, _ := manifest.GetMetadata(j.manifest, "subject_categories").([]string)
	return v
}
func (j *Journal) SetSubjectCategories(v []string) { j.setMetadata("subject_categories", v) }

func (j *Journal) InstitutionResponsibleFor() []map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "institution_responsible_for").([]map[string]interface{})
	return v
}
func (j *Journal) SetInstitutionResponsibleFor(v []map[string]interface{}) {
	j.setMetadata("institution_responsible_for", v)
}

func (j *Journal) OnlineSubmissionURL() string     { return j.metadataString("online_submission_url") }
func (j *Journal) SetOnlineSubmissionURL(v string) { j.setMetadata("online_submission_url", v) }

func (j *Journal) NextJournal() map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "next_journal").(map[string]interface{})
	return v
}
func (j *Journal) SetNextJournal(v map[string]interface{}) { j.setMetadata("next_journal", v) }

func (j *Journal) PreviousJournal() map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "previous_journal").(map[string]interface{})
	return v
}
func (j *Journal) SetPreviousJournal(v map[string]interface{}) { j.setMetadata("previous_journal", v) }

func (j *Journal) Contact() map[string]interface{} {
	v, _ := manifest.GetMetadata(j.manifest, "contact").(map[string]interface{})
	return v
}
func (j *Journal) SetContact(v map[string]interface{}) { j.setMetadata("contact", v) }

// Issues returns the journal's ordered, unique issue bundle ids.
func (j *Journal) Issues() []string {
	items := make([]string, len(j.manifest.Items))
	copy(items, j.manifest.Items)
	return items
}

func (j *Journal) AddIssue(id string) error {
	m, err := manifest.AddItem(j.manifest, id, j.now)
	if err != nil {
		return translateItemErr(err)
	}
	j.manifest = m
	return nil
}

func (j *Journal) InsertIssue(index int, id string) error {
	m, err := manifest.InsertItem(j.manifest, index, id, j.now)
	if err != nil {
		return translateItemErr(err)
	}
	j.manifest = m
	return nil
}

func (j *Journal) RemoveIssue(id string) error {
	m, err := manifest.RemoveItem(j.manifest, id, j.now)
	if err != nil {
		return translateItemErr(err)
	}
	j.manifest = m
	return nil
}

// Provisional is the journal's provisional-status singleton component.
func (j *Journal) Provisional() string {
	return manifest.GetComponent(j.manifest, "provisional", "")
}

func (j *Journal) SetProvisional(value string) {
	j.manifest = manifest.SetComponent(j.manifest, "provisional", value, j.now)
}

// AheadOfPrintBundle is the id of the bundle currently holding
// ahead-of-print documents, or "" if none is set.
func (j *Journal) AheadOfPrintBundle() string {
	return manifest.GetComponent(j.manifest, "aop", "")
}

func (j *Journal) SetAheadOfPrintBundle(bundleID string) {
	j.manifest = manifest.SetComponent(j.manifest, "aop", bundleID, j.now)
}

// RemoveAheadOfPrintBundle clears the aop component. ErrDoesNotExist if it
// was never set.
func (j *Journal) RemoveAheadOfPrintBundle() error {
	m, err := manifest.RemoveComponent(j.manifest, "aop", j.now)
	if err != nil {
		return translateItemErr(err)
	}
	j.manifest = m
	return nil
}

// Data collapses the journal to its current values for the HTTP surface.
func (j *Journal) Data() JournalData {
	return JournalData{
		ID:                        j.manifest.ID,
		Created:                   j.manifest.Created,
		Updated:                   j.manifest.Updated,
		Issues:                    j.Issues(),
		Mission:                   j.Mission(),
		Title:                     j.Title(),
		TitleISO:                  j.TitleISO(),
		ShortTitle:                j.ShortTitle(),
		Acronym:                   j.Acronym(),
		ScieloISSN:                j.ScieloISSN(),
		PrintISSN:                 j.PrintISSN(),
		ElectronicISSN:            j.ElectronicISSN(),
		Status:                    j.Status(),
		SubjectAreas:              j.SubjectAreas(),
		Sponsors:                  j.Sponsors(),
		Metrics:                   j.Metrics(),
		SubjectCategories:         j.SubjectCategories(),
		InstitutionResponsibleFor: j.InstitutionResponsibleFor(),
		OnlineSubmissionURL:       j.OnlineSubmissionURL(),
		NextJournal:               j.NextJournal(),
		PreviousJournal:           j.PreviousJournal(),
		Contact:                   j.Contact(),
		Provisional:               j.Provisional(),
		AheadOfPrintBundle:        j.AheadOfPrintBundle(),
	}
}

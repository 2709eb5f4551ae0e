package sonarr

// StatusDelay is the queue status Sonarr reports while a delay profile
// holds an item back.
const StatusDelay = "delay"

// Language is a language entry attached to a queue record
type Language struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// QueueRecord is one item in Sonarr's download queue
type QueueRecord struct {
	ID                    int        `json:"id"`
	Title                 string     `json:"title"`
	Status                string     `json:"status"`
	Languages             []Language `json:"languages"`
	SeriesID              int        `json:"seriesId"`
	EpisodeID             int        `json:"episodeId"`
	Protocol              string     `json:"protocol"`
	DownloadClient        string     `json:"downloadClient"`
	TrackedDownloadStatus string     `json:"trackedDownloadStatus"`
}

// LanguageNames returns the record's language names in order.
func (r QueueRecord) LanguageNames() []string {
	names := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		names = append(names, l.Name)
	}
	return names
}

// QueuePage is the paged envelope returned by /api/v3/queue
type QueuePage struct {
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	TotalRecords int           `json:"totalRecords"`
	Records      []QueueRecord `json:"records"`
}

// SystemStatus is the subset of /api/v3/system/status used for the
// startup connectivity check
type SystemStatus struct {
	AppName      string `json:"appName"`
	InstanceName string `json:"instanceName"`
	Version      string `json:"version"`
}

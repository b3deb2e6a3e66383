package model

// Instance is the normalized view of a compute instance surfaced to callers.
// Derived fields (uptime, memory, IPs) are computed at read time and never persisted.
type Instance struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Status      string            `json:"status"` // RUNNING, STOPPED, ... (provider passthrough)
	Zone        string            `json:"zone"`
	Platform    string            `json:"platform"`
	FQDN        string            `json:"fqdn"`
	CreatedAt   string            `json:"created_at"`
	Uptime      string            `json:"uptime"` // "N/A" unless RUNNING
	Preemptible bool              `json:"preemptible"`
	Resources   InstanceResources `json:"resources"`
	Network     InstanceNetwork   `json:"network"`
	Disk        InstanceDisk      `json:"disk"`
}

// InstanceResources holds the compute shape of an instance.
type InstanceResources struct {
	Cores        string `json:"cores"`
	Memory       string `json:"memory"` // human-readable, e.g. "2.0 GB"
	CoreFraction string `json:"core_fraction"`
}

// InstanceNetwork holds the addresses of the primary network interface.
type InstanceNetwork struct {
	PrivateIP string `json:"private_ip"`
	PublicIP  string `json:"public_ip"`
}

// InstanceDisk holds the boot disk attachment.
type InstanceDisk struct {
	ID         string `json:"id"`
	AutoDelete bool   `json:"auto_delete"`
}

// InstanceList is one page of instances plus the provider pagination token.
type InstanceList struct {
	Instances     []*Instance `json:"instances"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

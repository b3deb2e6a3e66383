package yandex

// Raw compute API response shapes. Fields mirror the provider schema; unknown
// fields are ignored and missing ones default, so a partial instance decodes
// instead of failing.

type listInstancesResponse struct {
	Instances     []*rawInstance `json:"instances"`
	NextPageToken string         `json:"nextPageToken"`
}

type rawInstance struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Status            string                `json:"status"`
	ZoneID            string                `json:"zoneId"`
	PlatformID        string                `json:"platformId"`
	FQDN              string                `json:"fqdn"`
	CreatedAt         string                `json:"createdAt"`
	Resources         *rawResources         `json:"resources"`
	NetworkInterfaces []rawNetworkInterface `json:"networkInterfaces"`
	BootDisk          *rawBootDisk          `json:"bootDisk"`
	SchedulingPolicy  *rawSchedulingPolicy  `json:"schedulingPolicy"`
}

// rawResources carries numeric values as decimal strings, as the API encodes
// 64-bit integers in JSON.
type rawResources struct {
	Cores        string `json:"cores"`
	Memory       string `json:"memory"`
	CoreFraction string `json:"coreFraction"`
}

type rawNetworkInterface struct {
	PrimaryV4Address *rawAddress `json:"primaryV4Address"`
}

type rawAddress struct {
	Address     string  `json:"address"`
	OneToOneNat *rawNat `json:"oneToOneNat"`
}

type rawNat struct {
	Address string `json:"address"`
}

type rawBootDisk struct {
	DiskID     string `json:"diskId"`
	AutoDelete bool   `json:"autoDelete"`
}

type rawSchedulingPolicy struct {
	Preemptible bool `json:"preemptible"`
}

// operationResponse is the async operation handle returned by start/stop.
type operationResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

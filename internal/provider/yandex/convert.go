package yandex

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

// convertToInstance normalizes a raw compute API instance into the view model.
// Derived fields are computed here at read time.
func convertToInstance(raw *rawInstance) *model.Instance {
	instance := &model.Instance{
		ID:        raw.ID,
		Name:      raw.Name,
		Status:    raw.Status,
		Zone:      raw.ZoneID,
		Platform:  raw.PlatformID,
		FQDN:      raw.FQDN,
		CreatedAt: raw.CreatedAt,
		Uptime:    calculateUptime(raw.CreatedAt, raw.Status, time.Now()),
	}

	if raw.Resources != nil {
		instance.Resources = model.InstanceResources{
			Cores:        raw.Resources.Cores,
			Memory:       formatMemory(raw.Resources.Memory),
			CoreFraction: raw.Resources.CoreFraction,
		}
	}

	if len(raw.NetworkInterfaces) > 0 {
		if primary := raw.NetworkInterfaces[0].PrimaryV4Address; primary != nil {
			instance.Network.PrivateIP = primary.Address
			if primary.OneToOneNat != nil {
				instance.Network.PublicIP = primary.OneToOneNat.Address
			}
		}
	}

	if raw.BootDisk != nil {
		instance.Disk = model.InstanceDisk{
			ID:         raw.BootDisk.DiskID,
			AutoDelete: raw.BootDisk.AutoDelete,
		}
	}

	if raw.SchedulingPolicy != nil {
		instance.Preemptible = raw.SchedulingPolicy.Preemptible
	}

	return instance
}

// formatMemory converts a byte count in decimal-string form to a
// human-readable value. Unparsable input is passed through verbatim.
func formatMemory(memoryBytes string) string {
	n, err := strconv.ParseInt(memoryBytes, 10, 64)
	if err != nil {
		return memoryBytes
	}

	mb := float64(n) / (1024 * 1024)
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", mb/1024)
	}
	return fmt.Sprintf("%.0f MB", mb)
}

// calculateUptime derives uptime from the creation timestamp. Anything other
// than a RUNNING instance with a parsable createdAt yields "N/A".
func calculateUptime(createdAt, status string, now time.Time) string {
	if status != "RUNNING" {
		return "N/A"
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return "N/A"
	}

	uptime := now.Sub(created)
	if uptime < 0 {
		return "N/A"
	}

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

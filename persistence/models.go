package persistence

// Host is one monitored host. Rows are provisioned out-of-band; the service
// only ever touches LastCheckin and Disconnected.
type Host struct {
	HostKey      string `gorm:"primary_key"`
	Hostname     string
	LastCheckin  int64
	Disconnected bool
}

// HostUpdate lists the fields to change on a host. Nil fields are left alone.
//
// IfDisconnected, when set, makes the update conditional on the stored flag
// still holding that value.
type HostUpdate struct {
	LastCheckin    *int64
	Disconnected   *bool
	IfDisconnected *bool
}

func (u HostUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}

	if u.LastCheckin != nil {
		fields["last_checkin"] = *u.LastCheckin
	}

	if u.Disconnected != nil {
		fields["disconnected"] = *u.Disconnected
	}

	return fields
}

package refresh

// ChannelSink hands snapshots to a single reader. Only the newest unread
// snapshot is kept, so a slow reader never stalls the driver.
type ChannelSink struct {
	ch chan Snapshot
}

func NewChannelSink() *ChannelSink {
	return &ChannelSink{ch: make(chan Snapshot, 1)}
}

func (s *ChannelSink) Publish(snap Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		// drop the stale one
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *ChannelSink) C() <-chan Snapshot {
	return s.ch
}

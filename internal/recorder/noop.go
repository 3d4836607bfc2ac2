package recorder

import "RugTycoon/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTick(_ *TickRow) error { return nil }

func (n *NoopRecorder) RecordTrade(_ *model.Trade, _ string) error { return nil }

func (n *NoopRecorder) RecordRug(_ *RugRow) error { return nil }

func (n *NoopRecorder) RecordOrder(_ *OrderRow) error { return nil }

func (n *NoopRecorder) RecordSocial(_ *SocialRow) error { return nil }

func (n *NoopRecorder) Close() error { return nil }

package sqpack

// These forward to gd.metrics when one was attached via WithMetrics;
// they are plain no-ops otherwise, since metrics.Metrics itself treats
// a nil receiver as a no-op.

func (gd *GameData) observeRead(category, outcome string) {
	gd.metrics.ObserveRead(category, outcome)
}

func (gd *GameData) observeDecompressedBytes(n int) {
	gd.metrics.AddDecompressedBytes(n)
}

func (gd *GameData) observeSheetLoad(sheet, outcome string) {
	gd.metrics.ObserveSheetLoad(sheet, outcome)
}

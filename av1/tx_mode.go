package av1

// readTxMode is read_tx_mode(), §5.9.21.
func (d *Decoder) readTxMode(r *reader) {
	if d.codedLossless {
		d.txMode = TxModeOnly4x4
		return
	}
	if r.flag() {
		d.txMode = TxModeSelect
	} else {
		d.txMode = TxModeLargest
	}
}

package core

// FilterNew returns the candidates whose fingerprint is not in existing,
// preserving input order. This is the sole re-import guard: the extractor
// rescans already-seen mail, so correctness rests on fingerprint stability.
func FilterNew(candidates []Transaction, existing map[string]struct{}) []Transaction {
	out := make([]Transaction, 0, len(candidates))
	for _, tx := range candidates {
		if _, seen := existing[tx.Fingerprint]; seen {
			continue
		}
		out = append(out, tx)
	}
	return out
}

package attendance

// Diff は現在の出席者集合と提出された出席者集合の差分を計算する
// toAdd は提出されたが記録のないユーザー、toRemove は記録はあるが提出に含まれないユーザー
// 同じ集合を二度適用しても差分は空になる（冪等）
func Diff(existing []string, submitted []string) (toAdd []string, toRemove []string) {
	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}

	submittedSet := make(map[string]struct{}, len(submitted))
	for _, id := range submitted {
		if _, dup := submittedSet[id]; dup {
			continue // 提出リストの重複は無視
		}
		submittedSet[id] = struct{}{}
		if _, ok := existingSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}

	for _, id := range existing {
		if _, ok := submittedSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

package dto

// totalPages computes how many pages of the given size a result set spans
func totalPages(totalCount int64, pageSize int) int {
	n := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		n++
	}
	return n
}

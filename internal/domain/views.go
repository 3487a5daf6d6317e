package domain

// NoScore 没有任何可用评分时对外返回的哨兵值。
const NoScore float64 = -1

// BorrowedBook 在借中的书（present 列表项）。
type BorrowedBook struct {
	Name string `json:"name"`
}

// ReturnedBook 已归还的书及当时打出的评分（past 列表项）。
type ReturnedBook struct {
	Name      string `json:"name"`
	UserScore int    `json:"userScore"`
}

type UserBooks struct {
	Past    []ReturnedBook `json:"past"`
	Present []BorrowedBook `json:"present"`
}

// UserWithBooks GET /users/:userId 的响应结构。
type UserWithBooks struct {
	ID    uint      `json:"id"`
	Name  string    `json:"name"`
	Books UserBooks `json:"books"`
}

// BookWithScore GET /books/:bookId 的响应结构。
// Score 为该书全部关联借阅评分的平均值（保留两位小数），无数据时为 NoScore。
type BookWithScore struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

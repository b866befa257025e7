package catalog

// 書籍登録リクエスト
type CreateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

// 読者登録リクエスト
type CreateReaderRequest struct {
	Surname    string `json:"surname" binding:"required"`
	GivenName  string `json:"given_name" binding:"required"`
	Patronymic string `json:"patronymic"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type BookResponse struct {
	ID        BookID `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
}

type BookSummaryResponse struct {
	ID     BookID `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type ReaderResponse struct {
	ID         ReaderID `json:"id"`
	Surname    string   `json:"surname"`
	GivenName  string   `json:"given_name"`
	Patronymic string   `json:"patronymic"`
	FullName   string   `json:"full_name"`
}

func ToReaderResponse(r Reader) ReaderResponse {
	return ReaderResponse{
		ID:         r.ID,
		Surname:    r.Surname,
		GivenName:  r.GivenName,
		Patronymic: r.Patronymic,
		FullName:   r.FullName(),
	}
}

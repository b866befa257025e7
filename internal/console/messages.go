package console

const (
	mainMenu = `Выберите действие:
1. Добавить книгу
2. Добавить читателя
3. Найти читателя
4. Показать доступные книги
0. Завершить работу
`
	readerMenuFmt = `Выберите действие для читателя '%s' (ID=%d):
1. Показать список доступных книг
2. Выдать книгу на чтение
3. Вернуть книгу
4. Книги читателя
0. Назад
`

	promptAction     = "Введите номер действия: "
	promptTitle      = "Введите заголовок книги: "
	promptAuthor     = "Введите автора книги: "
	promptSurname    = "Введите фамилию читателя: "
	promptName       = "Введите имя читателя: "
	promptPatronymic = "Введите отчество читателя: "
	promptBorrowID   = "Введите ID книги, которую вы хотите взять: "
	promptReturnID   = "Введите ID книги, которую вы хотите вернуть: "
	promptPickReader = "Введите ID читателя (Enter - первый в списке): "

	msgBookAdded       = "Книга '%s' успешно добавлена в базу данных (ID=%d)\n"
	msgReaderAdded     = "Читатель '%s' успешно добавлен в базу данных (ID=%d)\n"
	msgNoBooks         = "В библиотеке нет доступных книг"
	msgBorrowed        = "Книга успешно выдана на чтение"
	msgReturned        = "Книга успешно возвращена в библиотеку"
	msgAlreadyBorrowed = "Книга уже выдана другому читателю"
	msgNoOpenBorrowing = "Вы не брали эту книгу на чтение"
	msgReaderNotFound  = "Читатель не найден"
	msgBookNotFound    = "Книга не найдена"
	msgInvalidInput    = "Некорректный ввод"
	msgNoBorrowings    = "Читатель ещё не брал книг"
	msgSeveralReaders  = "Найдено несколько читателей с такой фамилией:"
)

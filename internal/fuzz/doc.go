// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser). They guard against panics, hangs and arena
// leaks on arbitrary input.
//
// Назначение: прогонять случайные байты через токенизатор и парсер и
// проверять, что дерево либо построено и освобождается без утечек, либо
// не построено вовсе и есть диагностика.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

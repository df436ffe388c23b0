// Package stream отдаёт большие синтетические последовательности байт чанками
// ограниченного размера с учётом обратного давления получателя.
//
// Generator читает очередной чанк из io.Reader и отдаёт его в Sink. Если Sink
// сообщает, что его буфер заполнен, генератор ждёт сигнала Drained и только
// потом производит следующий чанк, поэтому в работе всегда не больше одного чанка.
// Отмена контекста (клиент отключился) помечает передачу закрытой; это
// проверяется перед каждым чанком, а уже начатая запись не прерывается.
package stream

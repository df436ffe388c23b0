// Package playhttp реализует HTTP-интерфейс демо-сервера. Основные группы эндпоинтов:
//   - /get-text, /post-text, /put-text, /delete-text: text/plain;
//   - /get-json, /post-json, /put-json, /delete-json: эхо JSON;
//   - /post-form, /put-form, /post-multipart, /put-multipart: эхо полей формы;
//   - /upload-single, /upload-multiple: приём файлов в каталог загрузок;
//   - /download-file/{filename}, /view-file/{filename}: выдача файлов с поддержкой Range;
//   - /stream-large-json, /stream-text, /download-{size}: потоковая генерация с backpressure;
//   - /health, /admin/*: служебные.
package playhttp

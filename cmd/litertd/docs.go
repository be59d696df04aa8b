package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           litertd API
// @version         1.0
// @description     HTTP API for LiteRT model management and tensor inference.
//
// @contact.name   litertd maintainers
// @contact.url    https://github.com/MaxGubin/LiteRT
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

package main

// @title Antibiogram Stock API
// @version 1.0
// @description Inventory backend for antibiotic stock used with antibiogram test panels.

// @contact.name API Support
// @contact.url http://github.com/clinilab/antibiogram-stock

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @tag.name Antibioticos
// @tag.description Antibiotic stock endpoints

// @tag.name Antibiogramas
// @tag.description Antibiogram panel and association endpoints

// @tag.name Salidas
// @tag.description Outflow registration and log endpoints

// @tag.name Alerts
// @tag.description Low-stock alert endpoints

package utils

import "github.com/raushankrgupta/vessel-registry-scraper/logger"

var utilLog = logger.New("utils")

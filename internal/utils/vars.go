package utils

const DefaultChunkSize = 1024 * 1024 // 1MB buffer
const ToolUserAgent = "bgfetch/1.0"
const LogFile = ".bgfetch.log"

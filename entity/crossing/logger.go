package crossing

import "github.com/sirupsen/logrus"

// log 路口协调模块的日志记录器
var log = logrus.WithField("module", "crossing")

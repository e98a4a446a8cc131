/*
Copyright 2022 The FuzzCloud Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

func Debug(args ...interface{}) {
	getSugaredLogger().Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	getSugaredLogger().Debugf(format, args...)
}

func Info(args ...interface{}) {
	getSugaredLogger().Info(args...)
}

func Infof(format string, args ...interface{}) {
	getSugaredLogger().Infof(format, args...)
}

func Warn(args ...interface{}) {
	getSugaredLogger().Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	getSugaredLogger().Warnf(format, args...)
}

func Error(args ...interface{}) {
	getSugaredLogger().Error(args...)
}

func Errorf(format string, args ...interface{}) {
	getSugaredLogger().Errorf(format, args...)
}

func DPanic(args ...interface{}) {
	getSugaredLogger().DPanic(args...)
}

func DPanicf(format string, args ...interface{}) {
	getSugaredLogger().DPanicf(format, args...)
}

func Panic(args ...interface{}) {
	getSugaredLogger().Panic(args...)
}

func Panicf(format string, args ...interface{}) {
	getSugaredLogger().Panicf(format, args...)
}

func Fatal(args ...interface{}) {
	getSugaredLogger().Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	getSugaredLogger().Fatalf(format, args...)
}

package constants

const (
	DefaultNotify100  = true
	DefaultNotify1000 = true
	DefaultNotifyFun  = true
)

// DefaultFunNumbers returns a fresh copy of the default "fun numbers".
func DefaultFunNumbers() []int {
	return []int{
		111, 222, 333, 444, 555, 666, 777, 888, 999,
		1010, 1111, 1234, 1313, 1414, 1515,
		2020, 2222, 2345, 2468,
		3000, 3333, 3456, 4321, 4444,
		5000, 5555, 6000, 6666, 7000, 7777,
		8000, 8888, 9000, 9999,
	}
}

// Setting keys used by key/value backends
const (
	SettingFunNumbers = "fun_numbers"
	SettingNotify100  = "notify_100"
	SettingNotify1000 = "notify_1000"
	SettingNotifyFun  = "notify_fun"
)
